package domain

import "strings"

// Metal identifies a tradeable commodity metal. The gold variants are
// distinct catalogue entries (different bar formats) that all price off the
// single Gold quote and spread bucket.
type Metal string

const (
	MetalGold        Metal = "Gold"
	MetalGoldKilobar Metal = "Gold Kilobar"
	MetalGoldTola    Metal = "Gold TOLA"
	MetalGoldTenTola Metal = "Gold Ten TOLA"
	MetalGoldCoin    Metal = "Gold Coin"
	MetalMintedBar   Metal = "Minted Bar"
	MetalSilver      Metal = "Silver"
	MetalPlatinum    Metal = "Platinum"
	MetalCopper      Metal = "Copper"
)

// knownMetals maps lower-cased names to their canonical spelling.
var knownMetals = map[string]Metal{
	"gold":          MetalGold,
	"gold kilobar":  MetalGoldKilobar,
	"gold tola":     MetalGoldTola,
	"gold ten tola": MetalGoldTenTola,
	"gold coin":     MetalGoldCoin,
	"minted bar":    MetalMintedBar,
	"silver":        MetalSilver,
	"platinum":      MetalPlatinum,
	"copper":        MetalCopper,
}

// ParseMetal normalizes a metal name to its canonical spelling. Names outside
// the known set are kept verbatim so tenants can price custom symbols.
func ParseMetal(s string) Metal {
	s = strings.TrimSpace(s)
	if m, ok := knownMetals[strings.ToLower(s)]; ok {
		return m
	}
	return Metal(s)
}

// goldFamily is the set of metals that resolve to the Gold quote and spread
// bucket.
var goldFamily = map[Metal]bool{
	MetalGold:        true,
	MetalGoldKilobar: true,
	MetalGoldTola:    true,
	MetalGoldTenTola: true,
	MetalGoldCoin:    true,
	MetalMintedBar:   true,
}

// IsGoldFamily reports whether the metal prices off the Gold quote.
func (m Metal) IsGoldFamily() bool {
	return goldFamily[m]
}

// Family returns the pricing-family metal: every gold variant collapses to
// Gold, all other metals stand on their own.
func (m Metal) Family() Metal {
	if m.IsGoldFamily() {
		return MetalGold
	}
	return m
}

// Symbol returns the uppercased feed subscription symbol for the metal's
// pricing family.
func (m Metal) Symbol() string {
	return strings.ToUpper(string(m.Family()))
}
