// Package providers defines the raw observation shapes produced by external
// OSINT providers for a scanned subject (phone number, email, or username).
// Transport and crawling live outside this service; providers deliver zero or
// more typed observations per category and nothing else crosses the boundary.
package providers

import (
	"context"
	"time"
)

// MentionSeverity grades a web mention.
type MentionSeverity string

const (
	MentionSeverityLow    MentionSeverity = "low"
	MentionSeverityMedium MentionSeverity = "medium"
	MentionSeverityHigh   MentionSeverity = "high"
)

// MatchType describes how a cross-platform hit was correlated.
type MatchType string

const (
	MatchTypePhone    MatchType = "phone"
	MatchTypeUsername MatchType = "username_correlation"
	MatchTypeEmail    MatchType = "email_linkage"
)

// PresenceResult is a single authoritative registration check on one platform.
type PresenceResult struct {
	Registered        bool   `json:"registered"`
	HasProfilePhoto   bool   `json:"has_profile_photo"`
	HasAboutText      bool   `json:"has_about_text"`
	IsBusinessAccount bool   `json:"is_business_account"`
	BusinessName      string `json:"business_name,omitempty"`
	BusinessCategory  string `json:"business_category,omitempty"`
}

// WebMention is one public web page referencing the subject identifier.
type WebMention struct {
	Source   string          `json:"source"`
	URL      string          `json:"url,omitempty"`
	Context  string          `json:"context"`
	Severity MentionSeverity `json:"severity"`
}

// ScamDBMatch is a hit against a scam/fraud reporting database.
type ScamDBMatch struct {
	Database     string   `json:"database"`
	ReportCount  int      `json:"report_count"`
	LastReported string   `json:"last_reported,omitempty"`
	Categories   []string `json:"categories,omitempty"`
}

// BreachLinkage ties the subject identifier to a known data breach.
type BreachLinkage struct {
	BreachName string   `json:"breach_name"`
	BreachDate string   `json:"breach_date"`
	DataTypes  []string `json:"data_types"`
	Severity   string   `json:"severity"`
}

// CrossPlatformHit is a reuse correlation on another platform. Confidence is
// the provider's own 0-1 estimate for the correlation.
type CrossPlatformHit struct {
	Platform   string    `json:"platform"`
	MatchType  MatchType `json:"match_type"`
	Confidence float64   `json:"confidence"`
}

// Observations is everything the provider layer returned for one subject on
// one platform. Absent categories stay nil; an empty slice and a nil slice
// are treated identically downstream.
type Observations struct {
	Presence          *PresenceResult    `json:"presence,omitempty"`
	WebMentions       []WebMention       `json:"web_mentions,omitempty"`
	ScamDBMatches     []ScamDBMatch      `json:"scam_db_matches,omitempty"`
	BreachLinkages    []BreachLinkage    `json:"breach_linkages,omitempty"`
	CrossPlatformHits []CrossPlatformHit `json:"cross_platform_hits,omitempty"`
}

// Provider is the interface an OSINT source integration implements. The
// signal engine never calls providers directly; a fetch layer upstream of the
// API gathers Observations and posts them in.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, subject string) (*Observations, error)
	HealthCheck(ctx context.Context) error
	RateLimit() RateLimitStatus
}

// RateLimitStatus represents provider API rate limiting.
type RateLimitStatus struct {
	Remaining int       `json:"remaining"`
	Limit     int       `json:"limit"`
	ResetAt   time.Time `json:"reset_at"`
}
