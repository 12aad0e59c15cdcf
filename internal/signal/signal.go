// Package signal normalizes raw per-platform OSINT observations into
// weighted, confidence-rated signals and reduces them into a 0-100 risk
// contribution and a 0-1 overall confidence per platform bundle.
package signal

import (
	"encoding/json"
	"fmt"
	"time"
)

// Category identifies the evidence family a signal belongs to. The set is
// closed per adapter; adding a category means adding its base weight below.
type Category string

const (
	CategoryPresence        Category = "presence"
	CategoryBusinessProfile Category = "business_profile"
	CategoryWebMentions     Category = "web_mentions"
	CategoryScamDB          Category = "scam_db"
	CategoryBreachLinkage   Category = "breach_linkage"
	CategoryCrossPlatform   Category = "cross_platform"
	CategoryExperimental    Category = "experimental"
)

// BaseWeight returns the category's contribution weight toward the bundle
// risk score. Unknown categories land in a zero-weight bucket rather than
// failing the scan.
func (c Category) BaseWeight() float64 {
	switch c {
	case CategoryPresence:
		return 10
	case CategoryBusinessProfile:
		return 5
	case CategoryWebMentions:
		return 20
	case CategoryScamDB:
		return 30
	case CategoryBreachLinkage:
		return 25
	case CategoryCrossPlatform:
		return 15
	case CategoryExperimental:
		return 5
	default:
		return 0
	}
}

// Confidence is the graded trust level of a single signal.
type Confidence string

const (
	ConfidenceHigh       Confidence = "high"
	ConfidenceMedium     Confidence = "medium"
	ConfidenceLow        Confidence = "low"
	ConfidenceUnverified Confidence = "unverified"
)

// Multiplier discounts a signal's weight before scoring. Unknown confidence
// values are treated as unverified.
func (c Confidence) Multiplier() float64 {
	switch c {
	case ConfidenceHigh:
		return 1.0
	case ConfidenceMedium:
		return 0.7
	case ConfidenceLow:
		return 0.4
	case ConfidenceUnverified:
		return 0.2
	default:
		return 0.2
	}
}

// ValueKind discriminates the Value variant.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindCount
	KindText
)

// Value is the tagged variant a signal observes: a boolean risk flag, a
// numeric magnitude (e.g. report count), or categorical text. It serializes
// as the bare primitive so bundles stay plain JSON for the UI layer.
type Value struct {
	kind ValueKind
	b    bool
	n    float64
	s    string
}

// Bool wraps a risk-present/absent flag.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Count wraps a numeric magnitude.
func Count(n float64) Value { return Value{kind: KindCount, n: n} }

// Text wraps categorical or free text.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// RiskMagnitude maps the value onto [0,1] for scoring. Counts normalize as
// count/10 saturating at 1, so ten or more reports read as maximum risk for
// that signal. Text has no graded semantics and defaults to moderate (0.5);
// this matches the historical scoring behavior and changing it would shift
// real users' scores, so it stays until product review says otherwise.
func (v Value) RiskMagnitude() float64 {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindCount:
		if v.n <= 0 {
			return 0
		}
		if v.n >= 10 {
			return 1
		}
		return v.n / 10
	default:
		return 0.5
	}
}

// MarshalJSON emits the underlying primitive.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindCount:
		return json.Marshal(v.n)
	default:
		return json.Marshal(v.s)
	}
}

// UnmarshalJSON infers the variant from the JSON primitive type.
func (v *Value) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = Bool(b)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Count(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Text(s)
		return nil
	}
	return fmt.Errorf("signal value must be bool, number, or string: %s", data)
}

// Evidence is one key/value display pair attached to a signal.
type Evidence struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Signal is one normalized, scoreable observation about a subject.
type Signal struct {
	ID              string     `json:"id"`
	Category        Category   `json:"category"`
	Label           string     `json:"label"`
	Value           Value      `json:"value"`
	Confidence      Confidence `json:"confidence"`
	ConfidenceScore float64    `json:"confidence_score"`
	Weight          float64    `json:"weight"`
	ProOnly         bool       `json:"pro_only"`
	Experimental    bool       `json:"experimental"`
	Evidence        []Evidence `json:"evidence,omitempty"`
	ObservedAt      time.Time  `json:"observed_at"`
}

// FeatureFlags is the flag snapshot active when a bundle was generated. It
// is persisted with the bundle for auditability, never recomputed later.
type FeatureFlags struct {
	Basic        bool `json:"basic"`
	Experimental bool `json:"experimental"`
}

// Bundle is the output of one adapter run for one subject identifier. It is
// immutable after construction and feeds the cross-source risk index as a
// single finding category.
type Bundle struct {
	Subject           string       `json:"subject"`
	Platform          string       `json:"platform"`
	Signals           []Signal     `json:"signals"`
	RiskContribution  int          `json:"risk_contribution"`
	OverallConfidence float64      `json:"overall_confidence"`
	GeneratedAt       time.Time    `json:"generated_at"`
	FeatureFlags      FeatureFlags `json:"feature_flags"`
}
