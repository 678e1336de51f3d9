package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addItemInput struct {
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

func TestValidate(t *testing.T) {
	err := Validate(addItemInput{Quantity: -1})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	fields := vErr.Fields()
	assert.Equal(t, "is required", fields["SKU"])
	assert.Equal(t, "must be greater than or equal to 0", fields["Quantity"])

	assert.NoError(t, Validate(addItemInput{SKU: "A"}))
}

func TestValidateVar_Email(t *testing.T) {
	assert.NoError(t, ValidateVar("friend@example.com", "required,email"))
	assert.Error(t, ValidateVar("not-an-email", "required,email"))
	assert.Error(t, ValidateVar("", "required,email"))
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"sku":"A","quantity":2}`))
	var in addItemInput
	require.NoError(t, DecodeAndValidate(r, &in))
	assert.Equal(t, "A", in.SKU)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{bad`))
	assert.Error(t, DecodeAndValidate(r, &in))
}
