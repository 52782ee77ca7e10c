package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessage(t *testing.T) {
	one := &ValidationError{Fields: []string{"metal"}}
	assert.Equal(t, "metal is required", one.Error())

	several := &ValidationError{Fields: []string{"metal", "purity", "weight"}}
	assert.Equal(t, "metal, purity, weight are required", several.Error())

	reasoned := &ValidationError{Fields: []string{"purity", "unit"}, Reason: "must be positive"}
	assert.Equal(t, "purity, unit must be positive", reasoned.Error())
}

func TestIsValidation(t *testing.T) {
	err := &ValidationError{Fields: []string{"unit"}}
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(fmt.Errorf("registry_service: %w", err)))
	assert.False(t, IsValidation(ErrNotFound))
	assert.False(t, IsValidation(errors.New("boom")))
}
