package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/aurumdesk/spotrate/internal/domain"
)

// gramsPerUnit is the fixed weight-unit conversion table.
var gramsPerUnit = map[domain.WeightUnit]float64{
	domain.UnitGM:   1,
	domain.UnitKG:   1000,
	domain.UnitTOLA: 11.664,
	domain.UnitTTB:  116.64,
	domain.UnitOZ:   31.1034768,
}

// UnitMultiplier returns the gram-equivalent multiplier for a weight unit.
// Unknown units fall back to 1 rather than erroring.
func UnitMultiplier(unit domain.WeightUnit) float64 {
	if m, ok := gramsPerUnit[unit]; ok {
		return m
	}
	return 1
}

// PurityFraction converts a purity code to a 0-1 fineness fraction by
// dividing by 10^d where d is the digit count of the code's integer part.
// The digit-counting rule is what disambiguates 3-digit from 4-digit codes:
// 999 -> 0.999 and 9999 -> 0.9999, not a fixed divisor.
func PurityFraction(purity float64) float64 {
	if math.IsNaN(purity) || math.IsInf(purity, 0) {
		return math.NaN()
	}
	s := strconv.FormatFloat(purity, 'f', -1, 64)
	intPart, _, _ := strings.Cut(s, ".")
	intPart = strings.TrimPrefix(intPart, "-")
	return purity / math.Pow10(len(intPart))
}
