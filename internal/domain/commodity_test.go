package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWeightUnit(t *testing.T) {
	for _, raw := range []string{"gm", "GM", " Gm "} {
		u, ok := ParseWeightUnit(raw)
		assert.True(t, ok)
		assert.Equal(t, UnitGM, u)
	}

	u, ok := ParseWeightUnit("ttb")
	assert.True(t, ok)
	assert.Equal(t, UnitTTB, u)
}

func TestParseWeightUnitRejectsUnknown(t *testing.T) {
	_, ok := ParseWeightUnit("carat")
	assert.False(t, ok)
	_, ok = ParseWeightUnit("")
	assert.False(t, ok)
}
