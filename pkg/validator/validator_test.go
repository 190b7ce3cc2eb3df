package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPhone(t *testing.T) {
	valid := []string{"3001234567", "+57 300 123 4567", "300-123-4567", "+573001234567"}
	for _, s := range valid {
		assert.True(t, IsPhone(s), s)
	}

	invalid := []string{"", "+", "abc", "300.123.4567", "57+300", "(300) 1234567"}
	for _, s := range invalid {
		assert.False(t, IsPhone(s), s)
	}
}

type sample struct {
	Phone string `json:"phone" validate:"required,phone"`
	Kind  string `json:"kind" validate:"required,oneof=CC TI NIT"`
	Age   *int   `json:"age" validate:"omitempty,gte=0,lte=120"`
}

func TestCustomValidator(t *testing.T) {
	v := NewValidator()

	age := 30
	require.NoError(t, v.Validate(&sample{Phone: "300 123 4567", Kind: "CC", Age: &age}))

	tooOld := 121
	err := v.Validate(&sample{Phone: "call me", Kind: "XX", Age: &tooOld})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Contains(t, errs, "phone")
	assert.Contains(t, errs, "kind")
	assert.Contains(t, errs, "age")
	assert.Equal(t, "kind must be one of: CC TI NIT", errs["kind"])
}
