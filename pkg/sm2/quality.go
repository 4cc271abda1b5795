package sm2

import (
	"encoding"
	"fmt"
)

// Quality is the learner's self-assessment of a single review on the
// three-point scale used throughout the system.
type Quality int8

const (
	QualityForgot Quality = iota // No recall.
	QualityHard                  // Partial or effortful recall.
	QualityGood                  // Full recall.
)

var (
	qualityNames = [...]string{
		QualityForgot: "forgot",
		QualityHard:   "hard",
		QualityGood:   "good",
	}
	qualityByName = map[string]Quality{
		"forgot": QualityForgot,
		"hard":   QualityHard,
		"good":   QualityGood,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Quality(0)
	_ encoding.TextMarshaler   = Quality(0)
	_ encoding.TextUnmarshaler = (*Quality)(nil)
)

// String returns the name of the quality ("forgot", "hard", "good").
// For invalid values it returns "Quality(n)".
func (q Quality) String() string {
	if q.IsValid() {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// IsValid reports whether q is on the supported scale. Callers must
// reject invalid qualities before handing them to Advance.
func (q Quality) IsValid() bool {
	return q >= QualityForgot && q <= QualityGood
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) {
	if !q.IsValid() {
		return nil, fmt.Errorf("sm2: invalid quality %d", int(q))
	}
	return []byte(qualityNames[q]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quality) UnmarshalText(text []byte) error {
	v, ok := qualityByName[string(text)]
	if !ok {
		return fmt.Errorf("sm2: unknown quality %q", string(text))
	}
	*q = v
	return nil
}
