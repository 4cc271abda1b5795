package entity

import "strings"

// OwnerKind identifies which aggregate a card belongs to.
type OwnerKind string

const (
	OwnerVocab  OwnerKind = "vocab"
	OwnerPhrase OwnerKind = "phrase"
)

// IsValid reports whether the kind is one of the two supported owners.
func (k OwnerKind) IsValid() bool {
	return k == OwnerVocab || k == OwnerPhrase
}

// Tier classifies a phrase by the number of vocabulary components it
// is composed of.
type Tier string

const (
	TierSimple  Tier = "simple"  // up to 2 components
	TierMedium  Tier = "medium"  // 3 or 4 components
	TierComplex Tier = "complex" // 5 or more components
)

// TierForComponentCount derives the complexity tier from a component count.
func TierForComponentCount(n int) Tier {
	switch {
	case n <= 2:
		return TierSimple
	case n <= 4:
		return TierMedium
	default:
		return TierComplex
	}
}

// ParseTier converts an arbitrary string into a Tier, or "" when unknown.
func ParseTier(s string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierSimple:
		return TierSimple
	case TierMedium:
		return TierMedium
	case TierComplex:
		return TierComplex
	default:
		return ""
	}
}
