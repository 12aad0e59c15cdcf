// Package pri computes the Predictive Risk Index: a single 0-100 exposure
// score over all cross-source findings of a scan, with a severity band, a
// recommendation, and a per-category contribution breakdown.
//
// The engine is pure: no I/O, no clocks beyond the result timestamp, and no
// failure modes. Malformed findings are tolerated, never fatal.
package pri

import (
	"math"
	"strings"
	"time"
)

// Severity grades one finding, matching the scan pipeline's vocabulary.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// base is the sub-score floor a finding of this severity sets for its
// category. Unknown severities grade as informational.
func (s Severity) base() int {
	switch s {
	case SeverityCritical:
		return 90
	case SeverityHigh:
		return 70
	case SeverityMedium:
		return 45
	case SeverityLow:
		return 20
	case SeverityInfo:
		return 5
	default:
		return 5
	}
}

// rank orders severities for max-severity selection within a category.
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Evidence is one key/value display pair on a finding.
type Evidence struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Finding is the minimal scan-result shape the engine consumes. Findings
// originate in the scan pipeline; the engine never creates them.
type Finding struct {
	Severity Severity   `json:"severity"`
	Type     string     `json:"type"`
	Evidence []Evidence `json:"evidence,omitempty"`
}

// Category is the exposure taxonomy findings are grouped under.
type Category string

const (
	CategoryBreachExposure    Category = "breach_exposure"
	CategoryDataBroker        Category = "data_broker"
	CategoryIPInfrastructure  Category = "ip_infrastructure"
	CategorySocialExposure    Category = "social_exposure"
	CategoryDomainReputation  Category = "domain_reputation"
	CategoryMessagingExposure Category = "messaging_exposure"
	CategoryUncategorized     Category = "uncategorized"
)

// taxonomy is the fixed category order used for deterministic output.
var taxonomy = []Category{
	CategoryBreachExposure,
	CategoryDataBroker,
	CategoryIPInfrastructure,
	CategorySocialExposure,
	CategoryDomainReputation,
	CategoryMessagingExposure,
	CategoryUncategorized,
}

// Weight returns the category's share of the final score. Weights across
// the taxonomy sum to 1.0; uncategorized findings land in a zero-weight
// bucket so an unknown finding type can never fail or skew a scan.
func (c Category) Weight() float64 {
	switch c {
	case CategoryBreachExposure:
		return 0.30
	case CategoryDataBroker:
		return 0.20
	case CategoryIPInfrastructure:
		return 0.15
	case CategorySocialExposure:
		return 0.15
	case CategoryDomainReputation:
		return 0.10
	case CategoryMessagingExposure:
		return 0.10
	default:
		return 0
	}
}

// Categorize maps a finding type onto the taxonomy by keyword. Finding types
// are free-form strings owned by the scan pipeline, so matching is
// substring-based rather than exact.
func Categorize(f Finding) Category {
	t := strings.ToLower(f.Type)
	switch {
	case containsAny(t, "breach", "credential", "password", "leak"):
		return CategoryBreachExposure
	case containsAny(t, "broker", "people_search", "people-search", "directory"):
		return CategoryDataBroker
	case containsAny(t, "ip", "asn", "port", "infrastructure", "vpn", "proxy"):
		return CategoryIPInfrastructure
	case containsAny(t, "domain", "dns", "website", "reputation", "blacklist"):
		return CategoryDomainReputation
	case containsAny(t, "messaging", "whatsapp", "telegram", "phone", "sms"):
		return CategoryMessagingExposure
	case containsAny(t, "social", "profile", "username", "account"):
		return CategorySocialExposure
	default:
		return CategoryUncategorized
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Level is the severity band derived from the final score.
type Level string

const (
	LevelNone     Level = "none"
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// LevelForScore maps a 0-100 score to its band. Bands are inclusive at
// their lower bound and never overlap.
func LevelForScore(score int) Level {
	switch {
	case score >= 75:
		return LevelCritical
	case score >= 50:
		return LevelHigh
	case score >= 25:
		return LevelMedium
	case score > 0:
		return LevelLow
	default:
		return LevelNone
	}
}

// Recommendation returns the static guidance text for a band.
func (l Level) Recommendation() string {
	switch l {
	case LevelCritical:
		return "Critical exposure detected. Rotate credentials now, enable two-factor authentication everywhere, and start removal requests for every listed source."
	case LevelHigh:
		return "High exposure. Review breached accounts, change reused passwords, and submit removal requests for data-broker listings."
	case LevelMedium:
		return "Moderate exposure. Tighten privacy settings on exposed profiles and monitor the flagged sources."
	case LevelLow:
		return "Low exposure. A few public traces were found; periodic re-scans are sufficient."
	default:
		return "No issues found across the scanned sources."
	}
}

// remediationHints maps categories to concrete follow-up actions shown
// alongside the recommendation.
var remediationHints = map[Category]string{
	CategoryBreachExposure:    "Change passwords for accounts tied to this identifier and enable two-factor authentication.",
	CategoryDataBroker:        "File opt-out requests with the listed data brokers; most honor removal within 30 days.",
	CategoryIPInfrastructure:  "Review services exposed on associated infrastructure and close unused ports.",
	CategorySocialExposure:    "Audit public profile visibility and remove the identifier from public bios.",
	CategoryDomainReputation:  "Check associated domains against blocklists and request delisting where flagged.",
	CategoryMessagingExposure: "Restrict messaging profile discovery settings and review public group memberships.",
}

// Contribution is one populated category's share of the index. Entries are
// emitted in taxonomy order; any display sorting is a presentation concern.
type Contribution struct {
	Category Category `json:"category"`
	Findings int      `json:"findings"`
	Score    int      `json:"score"`
	Weight   float64  `json:"weight"`
}

// RemediationHint is a per-category follow-up action.
type RemediationHint struct {
	Category Category `json:"category"`
	Action   string   `json:"action"`
}

// Result is the computed Predictive Risk Index.
type Result struct {
	Score          int               `json:"score"`
	Level          Level             `json:"level"`
	Recommendation string            `json:"recommendation"`
	Contributions  []Contribution    `json:"contributions"`
	Remediation    []RemediationHint `json:"remediation,omitempty"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

// subScore maps a category's findings to 0-100: the worst severity sets the
// floor and every additional finding adds 8 points, saturating at 100. The
// curve is monotonic in both severity and count and is held fixed so scores
// stay reproducible across releases.
func subScore(worst Severity, count int) int {
	if count == 0 {
		return 0
	}
	score := worst.base() + 8*(count-1)
	if score > 100 {
		score = 100
	}
	return score
}

// Compute reduces the full cross-source finding list of one scan into the
// Predictive Risk Index. An empty input yields a zero score, level "none",
// and no contributions; the engine never errors.
func Compute(findings []Finding) Result {
	counts := make(map[Category]int)
	worst := make(map[Category]Severity)

	for _, f := range findings {
		c := Categorize(f)
		counts[c]++
		if cur, ok := worst[c]; !ok || f.Severity.rank() > cur.rank() {
			worst[c] = f.Severity
		}
	}

	contributions := make([]Contribution, 0, len(counts))
	var remediation []RemediationHint
	var weighted float64

	for _, c := range taxonomy {
		n := counts[c]
		if n == 0 {
			continue
		}

		score := subScore(worst[c], n)
		weight := c.Weight()
		weighted += float64(score) * weight

		contributions = append(contributions, Contribution{
			Category: c,
			Findings: n,
			Score:    score,
			Weight:   weight,
		})

		if hint, ok := remediationHints[c]; ok && score > 0 {
			remediation = append(remediation, RemediationHint{Category: c, Action: hint})
		}
	}

	score := int(math.Round(weighted))
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	level := LevelForScore(score)

	return Result{
		Score:          score,
		Level:          level,
		Recommendation: level.Recommendation(),
		Contributions:  contributions,
		Remediation:    remediation,
		GeneratedAt:    time.Now(),
	}
}
