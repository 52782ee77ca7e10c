package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurumdesk/spotrate/internal/domain"
)

func TestUnitMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, UnitMultiplier(domain.UnitGM))
	assert.Equal(t, 1000.0, UnitMultiplier(domain.UnitKG))
	assert.Equal(t, 11.664, UnitMultiplier(domain.UnitTOLA))
	assert.Equal(t, 116.64, UnitMultiplier(domain.UnitTTB))
	assert.Equal(t, 31.1034768, UnitMultiplier(domain.UnitOZ))
}

func TestUnitMultiplierUnknownFallsBackToOne(t *testing.T) {
	assert.Equal(t, 1.0, UnitMultiplier(domain.WeightUnit("CARAT")))
	assert.Equal(t, 1.0, UnitMultiplier(domain.WeightUnit("")))
}

func TestPurityFractionDigitCount(t *testing.T) {
	// The divisor tracks the digit count, not a fixed scale.
	assert.InDelta(t, 0.999, PurityFraction(999), 1e-12)
	assert.InDelta(t, 0.9999, PurityFraction(9999), 1e-12)
	assert.InDelta(t, 0.916, PurityFraction(916), 1e-12)
	assert.InDelta(t, 0.995, PurityFraction(995), 1e-12)
	assert.InDelta(t, 0.75, PurityFraction(75), 1e-12)
}

func TestPurityFractionNonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(PurityFraction(math.NaN())))
	assert.True(t, math.IsNaN(PurityFraction(math.Inf(1))))
}
