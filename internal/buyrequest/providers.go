package buyrequest

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strconv"
	"strings"

	"wishlist-backend/internal/domain"
	"wishlist-backend/pkg/storage"

	"github.com/goccy/go-json"
)

const (
	QuoteMediaPath = "custom_options/quote/"
	OrderMediaPath = "custom_options/order/"
)

// Provider turns the tokens of one kind into buy request parameters.
type Provider interface {
	Provide(ctx context.Context, input *domain.OptionInput, productID string) (*domain.BuyRequest, error)
}

// --- Bundle ---

type BundleProvider struct{}

func (BundleProvider) Provide(ctx context.Context, input *domain.OptionInput, productID string) (*domain.BuyRequest, error) {
	req := &domain.BuyRequest{}
	add := func(tok Token) {
		if req.BundleOption == nil {
			req.BundleOption = map[string][]string{}
			req.BundleOptionQty = map[string][]int{}
		}
		req.BundleOption[tok.OptionID] = append(req.BundleOption[tok.OptionID], tok.ValueID)
		req.BundleOptionQty[tok.OptionID] = append(req.BundleOptionQty[tok.OptionID], tok.Quantity)
	}

	for _, uid := range input.SelectedOptions {
		tok, ok, err := DecodeSelected(uid, KindBundle)
		if err != nil {
			return nil, err
		}
		if ok {
			add(tok)
		}
	}
	// bundle options with a custom quantity
	for _, opt := range input.EnteredOptions {
		tok, ok, err := DecodeEntered(opt.UID, opt.Value, KindBundle)
		if err != nil {
			return nil, err
		}
		if ok {
			add(tok)
		}
	}
	return req, nil
}

// --- Configurable ---

type ConfigurableProvider struct{}

func (ConfigurableProvider) Provide(ctx context.Context, input *domain.OptionInput, productID string) (*domain.BuyRequest, error) {
	req := &domain.BuyRequest{}
	for _, uid := range input.SelectedOptions {
		tok, ok, err := DecodeSelected(uid, KindConfigurable)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		value, err := strconv.Atoi(tok.ValueID)
		if err != nil {
			return nil, fmt.Errorf("%w: attribute value %q is not numeric", ErrMalformedOption, tok.ValueID)
		}
		if req.SuperAttribute == nil {
			req.SuperAttribute = map[string]int{}
		}
		req.SuperAttribute[tok.OptionID] = value
	}
	return req, nil
}

// --- Downloadable ---

type DownloadableProvider struct{}

func (DownloadableProvider) Provide(ctx context.Context, input *domain.OptionInput, productID string) (*domain.BuyRequest, error) {
	req := &domain.BuyRequest{}
	for _, uid := range input.SelectedOptions {
		tok, ok, err := DecodeSelected(uid, KindDownloadable)
		if err != nil {
			return nil, err
		}
		if ok {
			req.Links = append(req.Links, tok.OptionID)
		}
	}
	return req, nil
}

// --- Custom options ---

// CustomOptionProvider decodes custom option values. Entered values that
// carry an inline file are written to file storage and replaced by a
// reference to the stored file.
type CustomOptionProvider struct {
	files       storage.FileStorage
	maxFileSize int64
}

func NewCustomOptionProvider(files storage.FileStorage, maxFileSize int64) *CustomOptionProvider {
	return &CustomOptionProvider{files: files, maxFileSize: maxFileSize}
}

func (p *CustomOptionProvider) Provide(ctx context.Context, input *domain.OptionInput, productID string) (*domain.BuyRequest, error) {
	values := map[string]domain.OptionValues{}

	for _, uid := range input.SelectedOptions {
		tok, ok, err := DecodeSelected(uid, KindCustomOption)
		if err != nil {
			return nil, err
		}
		if ok {
			values[tok.OptionID] = append(values[tok.OptionID], domain.OptionValue{Text: tok.ValueID})
		}
	}

	for _, opt := range input.EnteredOptions {
		tok, ok, err := DecodeEntered(opt.UID, opt.Value, KindCustomOption)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		upload, isFile := parseFileUpload(opt.Value)
		if !isFile {
			values[tok.OptionID] = append(values[tok.OptionID], domain.OptionValue{Text: opt.Value})
			continue
		}
		ref, err := p.store(ctx, opt.UID, upload)
		if err != nil {
			return nil, err
		}
		values[tok.OptionID] = append(values[tok.OptionID], domain.OptionValue{File: ref})
	}

	req := &domain.BuyRequest{}
	if len(values) == 0 {
		return req, nil
	}
	req.Options = values
	req.Product = productID
	return req, nil
}

type fileUpload struct {
	FileName string `json:"file_name"`
	FileData string `json:"file_data"`
}

// parseFileUpload reports whether value is a JSON file upload. Anything else
// is a plain option value.
func parseFileUpload(value string) (fileUpload, bool) {
	var f fileUpload
	if err := json.Unmarshal([]byte(value), &f); err != nil {
		return fileUpload{}, false
	}
	if f.FileName == "" || f.FileData == "" {
		return fileUpload{}, false
	}
	return f, true
}

func (p *CustomOptionProvider) store(ctx context.Context, uid string, f fileUpload) (*domain.FileOption, error) {
	name := path.Base(f.FileName)
	if name == "." || name == "/" || name == ".." {
		return nil, fmt.Errorf("%w: invalid file name %q", ErrMalformedOption, f.FileName)
	}

	// data URLs carry the payload after the first comma
	payload := f.FileData
	if i := strings.Index(payload, ","); i >= 0 {
		payload = payload[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: file %q is not valid base64", ErrMalformedOption, name)
	}
	if p.maxFileSize > 0 && int64(len(data)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, name, p.maxFileSize)
	}

	inside := uid + "/_/" + name
	fullPath, err := p.files.WriteFile(ctx, QuoteMediaPath+inside, data)
	if err != nil {
		return nil, fmt.Errorf("store option file: %w", err)
	}

	return &domain.FileOption{
		Type:      "application/octet-stream",
		Title:     name,
		QuotePath: QuoteMediaPath + inside,
		OrderPath: OrderMediaPath + inside,
		FullPath:  fullPath,
		SecretKey: name,
	}, nil
}

// --- Builder ---

// Builder runs every provider over an option input and merges the results.
type Builder struct {
	providers []Provider
}

func NewBuilder(providers ...Provider) *Builder {
	return &Builder{providers: providers}
}

// NewDefaultBuilder wires the providers for every option kind.
func NewDefaultBuilder(files storage.FileStorage, maxFileSize int64) *Builder {
	return NewBuilder(
		BundleProvider{},
		NewCustomOptionProvider(files, maxFileSize),
		ConfigurableProvider{},
		DownloadableProvider{},
	)
}

func (b *Builder) Build(ctx context.Context, input *domain.OptionInput, productID string) (*domain.BuyRequest, error) {
	req := &domain.BuyRequest{}
	if input.IsEmpty() {
		return req, nil
	}
	for _, p := range b.providers {
		part, err := p.Provide(ctx, input, productID)
		if err != nil {
			return nil, err
		}
		req.Merge(part)
	}
	return req, nil
}
