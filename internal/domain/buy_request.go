package domain

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// BuyRequest is the structured parameter set needed to add one product
// configuration to a cart.
type BuyRequest struct {
	Product         string                  `json:"product,omitempty"`
	Qty             int                     `json:"qty,omitempty"`
	SuperAttribute  map[string]int          `json:"super_attribute,omitempty"`
	SuperGroup      map[string]int          `json:"super_group,omitempty"`
	Links           []string                `json:"links,omitempty"`
	BundleOption    map[string][]string     `json:"bundle_option,omitempty"`
	BundleOptionQty map[string][]int        `json:"bundle_option_qty,omitempty"`
	Options         map[string]OptionValues `json:"options,omitempty"`
}

// DecodeBuyRequest parses a stored buy request. An empty blob yields an
// empty request.
func DecodeBuyRequest(raw string) (*BuyRequest, error) {
	req := &BuyRequest{}
	if len(bytes.TrimSpace([]byte(raw))) == 0 {
		return req, nil
	}
	if err := json.Unmarshal([]byte(raw), req); err != nil {
		return nil, fmt.Errorf("decode buy request: %w", err)
	}
	return req, nil
}

func (r *BuyRequest) Encode() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode buy request: %w", err)
	}
	return string(b), nil
}

func (r *BuyRequest) IsEmpty() bool {
	return r.Product == "" && len(r.SuperAttribute) == 0 && len(r.SuperGroup) == 0 &&
		len(r.Links) == 0 && len(r.BundleOption) == 0 && len(r.Options) == 0
}

// Merge folds other into r. Map entries and links from other win over
// existing ones; scalar fields are only taken when set on other.
func (r *BuyRequest) Merge(other *BuyRequest) {
	if other == nil {
		return
	}
	if other.Product != "" {
		r.Product = other.Product
	}
	if other.Qty > 0 {
		r.Qty = other.Qty
	}
	for k, v := range other.SuperAttribute {
		if r.SuperAttribute == nil {
			r.SuperAttribute = map[string]int{}
		}
		r.SuperAttribute[k] = v
	}
	for k, v := range other.SuperGroup {
		if r.SuperGroup == nil {
			r.SuperGroup = map[string]int{}
		}
		r.SuperGroup[k] = v
	}
	for _, link := range other.Links {
		if !containsString(r.Links, link) {
			r.Links = append(r.Links, link)
		}
	}
	for k, v := range other.BundleOption {
		if r.BundleOption == nil {
			r.BundleOption = map[string][]string{}
		}
		r.BundleOption[k] = v
	}
	for k, v := range other.BundleOptionQty {
		if r.BundleOptionQty == nil {
			r.BundleOptionQty = map[string][]int{}
		}
		r.BundleOptionQty[k] = v
	}
	for k, v := range other.Options {
		if r.Options == nil {
			r.Options = map[string]OptionValues{}
		}
		r.Options[k] = v
	}
}

// SameConfiguration reports whether both requests describe the same product
// configuration, ignoring the requested quantity.
func (r *BuyRequest) SameConfiguration(other *BuyRequest) bool {
	a, b := *r, *other
	a.Qty, b.Qty = 0, 0
	ea, err := a.Encode()
	if err != nil {
		return false
	}
	eb, err := b.Encode()
	if err != nil {
		return false
	}
	return ea == eb
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// FileOption references an uploaded custom option file. The file bytes
// themselves live in file storage.
type FileOption struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	QuotePath string `json:"quote_path"`
	OrderPath string `json:"order_path"`
	FullPath  string `json:"fullpath,omitempty"`
	SecretKey string `json:"secret_key"`
}

// OptionValue is either a plain text value or a file reference.
type OptionValue struct {
	Text string
	File *FileOption
}

func (v OptionValue) MarshalJSON() ([]byte, error) {
	if v.File != nil {
		return json.Marshal(v.File)
	}
	return json.Marshal(v.Text)
}

func (v *OptionValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '{':
		var f FileOption
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		v.File = &f
	case '"':
		return json.Unmarshal(data, &v.Text)
	case 'n':
		*v = OptionValue{}
	default:
		// numbers and booleans are kept verbatim
		v.Text = string(data)
	}
	return nil
}

// OptionValues accumulates the values of one option. A single value is
// encoded as a scalar, several values as an array.
type OptionValues []OptionValue

func (vs OptionValues) MarshalJSON() ([]byte, error) {
	if len(vs) == 1 {
		return json.Marshal(vs[0])
	}
	return json.Marshal([]OptionValue(vs))
}

func (vs *OptionValues) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []OptionValue
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*vs = list
		return nil
	}
	var single OptionValue
	if err := single.UnmarshalJSON(data); err != nil {
		return err
	}
	*vs = OptionValues{single}
	return nil
}

// Texts returns the text values, skipping file references.
func (vs OptionValues) Texts() []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if v.File == nil {
			out = append(out, v.Text)
		}
	}
	return out
}
