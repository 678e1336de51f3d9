// Package buyrequest decodes client option tokens into buy request
// parameters.
//
// A token is base64("<kind>/<optionId>/<valueId>[/<quantity>]"). Each
// provider only consumes tokens of its own kind and skips the rest.
package buyrequest

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type Kind string

const (
	KindBundle       Kind = "bundle"
	KindCustomOption Kind = "custom-option"
	KindConfigurable Kind = "configurable"
	KindDownloadable Kind = "downloadable"
)

var (
	ErrMalformedOption = errors.New("malformed option")
	ErrFileTooLarge    = errors.New("option file is too large")
)

// Token is one decoded option selection.
type Token struct {
	Kind     Kind
	OptionID string
	ValueID  string
	Quantity int
	// Value is the companion value of an entered option.
	Value string
}

const bundleSegments = 4

// segments decodes uid and splits the payload on "/".
func segments(uid string) ([]string, error) {
	raw, err := base64.StdEncoding.DecodeString(uid)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(uid)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid encoding", ErrMalformedOption)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: invalid utf-8 payload", ErrMalformedOption)
	}
	return strings.Split(string(raw), "/"), nil
}

// DecodeSelected decodes a selected option id. applicable is false when the
// token belongs to another kind.
func DecodeSelected(uid string, kind Kind) (Token, bool, error) {
	parts, err := segments(uid)
	if err != nil {
		return Token{}, false, err
	}
	if Kind(parts[0]) != kind {
		return Token{}, false, nil
	}

	tok := Token{Kind: kind}
	switch kind {
	case KindBundle:
		if len(parts) != bundleSegments {
			return Token{}, false, wrongFormat(uid)
		}
		qty, ok := parseQuantity(parts[3])
		if !ok {
			return Token{}, false, wrongFormat(uid)
		}
		tok.OptionID, tok.ValueID, tok.Quantity = parts[1], parts[2], qty
	case KindCustomOption, KindConfigurable:
		if len(parts) < 3 {
			return Token{}, false, wrongFormat(uid)
		}
		tok.OptionID, tok.ValueID = parts[1], parts[2]
	case KindDownloadable:
		if len(parts) < 2 {
			return Token{}, false, wrongFormat(uid)
		}
		tok.OptionID = parts[1]
	default:
		return Token{}, false, fmt.Errorf("%w: unknown kind %q", ErrMalformedOption, kind)
	}
	return tok, true, nil
}

// DecodeEntered decodes an entered option uid together with its value. A
// bundle uid must have four segments, the last one may be omitted when the
// value is set. A non-empty value always wins as the bundle quantity.
func DecodeEntered(uid, value string, kind Kind) (Token, bool, error) {
	parts, err := segments(uid)
	if err != nil {
		return Token{}, false, err
	}
	if Kind(parts[0]) != kind {
		return Token{}, false, nil
	}

	tok := Token{Kind: kind, Value: value}
	switch kind {
	case KindBundle:
		entered := strings.TrimSpace(value)
		if len(parts) == bundleSegments-1 && entered != "" {
			parts = append(parts, entered)
		}
		if len(parts) != bundleSegments {
			return Token{}, false, wrongFormat(uid)
		}
		// the entered value carries the custom quantity
		if entered != "" {
			parts[3] = entered
		}
		qty, ok := parseQuantity(parts[3])
		if !ok {
			return Token{}, false, wrongFormat(uid)
		}
		tok.OptionID, tok.ValueID, tok.Quantity = parts[1], parts[2], qty
	case KindCustomOption:
		if len(parts) < 2 {
			return Token{}, false, wrongFormat(uid)
		}
		tok.OptionID = parts[1]
	default:
		return Token{}, false, nil
	}
	return tok, true, nil
}

// Encode builds a token for the given segments, the same way clients do.
func Encode(kind Kind, parts ...string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(append([]string{string(kind)}, parts...), "/")))
}

// parseQuantity accepts positive integers only.
func parseQuantity(s string) (int, bool) {
	qty, err := strconv.Atoi(s)
	if err != nil || qty < 1 {
		return 0, false
	}
	return qty, true
}

func wrongFormat(uid string) error {
	return fmt.Errorf("%w: wrong format of the entered option data %q", ErrMalformedOption, uid)
}
