package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WeightUnit is the closed enum of supported unit weights.
type WeightUnit string

const (
	UnitGM   WeightUnit = "GM"
	UnitKG   WeightUnit = "KG"
	UnitTOLA WeightUnit = "TOLA"
	UnitTTB  WeightUnit = "TTB"
	UnitOZ   WeightUnit = "OZ"
)

// ParseWeightUnit normalizes a weight unit code. It returns false for codes
// outside the enum.
func ParseWeightUnit(s string) (WeightUnit, bool) {
	u := WeightUnit(strings.ToUpper(strings.TrimSpace(s)))
	switch u {
	case UnitGM, UnitKG, UnitTOLA, UnitTTB, UnitOZ:
		return u, true
	}
	return "", false
}

// Commodity is one priced catalogue entry: a metal variant at a given purity
// and unit weight, with per-side premiums (USD per troy ounce) and charges
// (local currency, added after unit conversion). Owned by exactly one tenant.
type Commodity struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    string     `json:"-"`
	Metal       Metal      `json:"metal"`
	Purity      float64    `json:"purity"`
	UnitCount   float64    `json:"unit"`
	Weight      WeightUnit `json:"weight"`
	SellPremium float64    `json:"sellPremium"`
	BuyPremium  float64    `json:"buyPremium"`
	SellCharge  float64    `json:"sellCharge"`
	BuyCharge   float64    `json:"buyCharge"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CommodityDraft carries the fields of a create request. Pointer fields
// distinguish "absent" from zero so the registry can name exactly the
// required fields that are missing.
type CommodityDraft struct {
	Metal       string   `json:"metal"`
	Purity      *float64 `json:"purity"`
	UnitCount   *float64 `json:"unit"`
	Weight      string   `json:"weight"`
	SellPremium *float64 `json:"sellPremium"`
	BuyPremium  *float64 `json:"buyPremium"`
	SellCharge  *float64 `json:"sellCharge"`
	BuyCharge   *float64 `json:"buyCharge"`
}

// CommodityPatch carries a partial edit. Only non-nil fields are applied;
// everything else keeps its stored value.
type CommodityPatch struct {
	Metal       *string  `json:"metal"`
	Purity      *float64 `json:"purity"`
	UnitCount   *float64 `json:"unit"`
	Weight      *string  `json:"weight"`
	SellPremium *float64 `json:"sellPremium"`
	BuyPremium  *float64 `json:"buyPremium"`
	SellCharge  *float64 `json:"sellCharge"`
	BuyCharge   *float64 `json:"buyCharge"`
}
