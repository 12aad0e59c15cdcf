package signal

import (
	"fmt"
	"strings"

	"github.com/osintwatch/exposure/internal/providers"
)

// Builders turn one typed raw observation into zero or more signals. They
// are permissive: an item missing its required field is skipped and the rest
// of the batch is still processed. Empty input always yields an empty list,
// never a placeholder "no data" signal.

func (a *Adapter) buildPresenceSignals(presence *providers.PresenceResult) []Signal {
	now := a.now()
	signals := []Signal{{
		ID:              a.signalID("presence-registered"),
		Category:        CategoryPresence,
		Label:           fmt.Sprintf("%s Registration", a.platform.DisplayName()),
		Value:           Bool(presence.Registered),
		Confidence:      ConfidenceHigh,
		ConfidenceScore: 0.95,
		Weight:          CategoryPresence.BaseWeight(),
		ObservedAt:      now,
	}}

	// Sub-facts only exist for registered accounts. They derive from the
	// same authoritative lookup, hence the shared high confidence.
	if presence.Registered {
		signals = append(signals,
			Signal{
				ID:              a.signalID("presence-photo"),
				Category:        CategoryPresence,
				Label:           "Profile Photo Present",
				Value:           Bool(presence.HasProfilePhoto),
				Confidence:      ConfidenceHigh,
				ConfidenceScore: 0.9,
				Weight:          5,
				ObservedAt:      now,
			},
			Signal{
				ID:              a.signalID("presence-about"),
				Category:        CategoryPresence,
				Label:           "About Text Present",
				Value:           Bool(presence.HasAboutText),
				Confidence:      ConfidenceHigh,
				ConfidenceScore: 0.9,
				Weight:          3,
				ObservedAt:      now,
			},
		)
	}

	return signals
}

func (a *Adapter) buildBusinessProfileSignals(presence *providers.PresenceResult) []Signal {
	if !presence.IsBusinessAccount {
		return nil
	}

	var evidence []Evidence
	if presence.BusinessName != "" {
		evidence = append(evidence, Evidence{Key: "Business Name", Value: presence.BusinessName})
	}
	if presence.BusinessCategory != "" {
		evidence = append(evidence, Evidence{Key: "Category", Value: presence.BusinessCategory})
	}

	return []Signal{{
		ID:              a.signalID("business-detected"),
		Category:        CategoryBusinessProfile,
		Label:           "Business Account Detected",
		Value:           Bool(true),
		Confidence:      ConfidenceHigh,
		ConfidenceScore: 0.95,
		Weight:          CategoryBusinessProfile.BaseWeight(),
		Evidence:        evidence,
		ObservedAt:      a.now(),
	}}
}

func (a *Adapter) buildWebMentionSignals(mentions []providers.WebMention) []Signal {
	valid := make([]providers.WebMention, 0, len(mentions))
	for _, m := range mentions {
		if m.Source == "" {
			continue
		}
		valid = append(valid, m)
	}
	if len(valid) == 0 {
		return nil
	}

	// The category's base weight is split across mentions so a provider
	// returning many low-value hits cannot dominate the score.
	perItemWeight := CategoryWebMentions.BaseWeight() / float64(max(len(valid), 1))

	now := a.now()
	signals := make([]Signal, 0, len(valid))
	for i, m := range valid {
		evidence := []Evidence{{Key: "Source", Value: m.Source}}
		if m.URL != "" {
			evidence = append(evidence, Evidence{Key: "URL", Value: m.URL})
		}
		evidence = append(evidence, Evidence{Key: "Severity", Value: string(m.Severity)})

		signals = append(signals, Signal{
			ID:              a.signalID(fmt.Sprintf("webmention-%d", i)),
			Category:        CategoryWebMentions,
			Label:           fmt.Sprintf("Web Mention: %s", m.Source),
			Value:           Text(m.Context),
			Confidence:      ConfidenceMedium,
			ConfidenceScore: 0.6,
			Weight:          perItemWeight,
			ProOnly:         true,
			Evidence:        evidence,
			ObservedAt:      now,
		})
	}
	return signals
}

func (a *Adapter) buildScamDBSignals(matches []providers.ScamDBMatch) []Signal {
	now := a.now()
	signals := make([]Signal, 0, len(matches))
	for i, m := range matches {
		if m.Database == "" {
			continue
		}

		// Corroborated reports (3+) are trusted more than one-offs.
		confidence, confidenceScore := ConfidenceMedium, 0.6
		if m.ReportCount >= 3 {
			confidence, confidenceScore = ConfidenceHigh, 0.85
		}

		evidence := []Evidence{
			{Key: "Database", Value: m.Database},
			{Key: "Report Count", Value: fmt.Sprintf("%d", m.ReportCount)},
		}
		if len(m.Categories) > 0 {
			evidence = append(evidence, Evidence{Key: "Categories", Value: strings.Join(m.Categories, ", ")})
		}
		if m.LastReported != "" {
			evidence = append(evidence, Evidence{Key: "Last Reported", Value: m.LastReported})
		}

		signals = append(signals, Signal{
			ID:              a.signalID(fmt.Sprintf("scamdb-%d", i)),
			Category:        CategoryScamDB,
			Label:           fmt.Sprintf("Scam DB: %s", m.Database),
			Value:           Count(float64(m.ReportCount)),
			Confidence:      confidence,
			ConfidenceScore: confidenceScore,
			Weight:          CategoryScamDB.BaseWeight(),
			ProOnly:         true,
			Evidence:        evidence,
			ObservedAt:      now,
		})
	}
	return signals
}

func (a *Adapter) buildBreachSignals(breaches []providers.BreachLinkage) []Signal {
	now := a.now()
	signals := make([]Signal, 0, len(breaches))
	for i, b := range breaches {
		if b.BreachName == "" {
			continue
		}

		dataTypes := strings.Join(b.DataTypes, ", ")
		signals = append(signals, Signal{
			ID:              a.signalID(fmt.Sprintf("breach-%d", i)),
			Category:        CategoryBreachLinkage,
			Label:           fmt.Sprintf("Breach: %s", b.BreachName),
			Value:           Text(dataTypes),
			Confidence:      ConfidenceHigh,
			ConfidenceScore: 0.9,
			Weight:          CategoryBreachLinkage.BaseWeight(),
			ProOnly:         true,
			Evidence: []Evidence{
				{Key: "Breach", Value: b.BreachName},
				{Key: "Date", Value: b.BreachDate},
				{Key: "Data Types", Value: dataTypes},
				{Key: "Severity", Value: b.Severity},
			},
			ObservedAt: now,
		})
	}
	return signals
}

func (a *Adapter) buildCrossPlatformSignals(hits []providers.CrossPlatformHit) []Signal {
	now := a.now()
	signals := make([]Signal, 0, len(hits))
	for i, hit := range hits {
		if hit.Platform == "" {
			continue
		}

		confidence := ConfidenceLow
		switch {
		case hit.Confidence >= 0.8:
			confidence = ConfidenceHigh
		case hit.Confidence >= 0.5:
			confidence = ConfidenceMedium
		}

		confidenceScore := hit.Confidence
		if confidenceScore < 0 {
			confidenceScore = 0
		} else if confidenceScore > 1 {
			confidenceScore = 1
		}

		signals = append(signals, Signal{
			ID:              a.signalID(fmt.Sprintf("crossplatform-%d", i)),
			Category:        CategoryCrossPlatform,
			Label:           fmt.Sprintf("Cross-platform: %s", hit.Platform),
			Value:           Text(string(hit.MatchType)),
			Confidence:      confidence,
			ConfidenceScore: confidenceScore,
			Weight:          CategoryCrossPlatform.BaseWeight(),
			ProOnly:         true,
			Evidence: []Evidence{
				{Key: "Platform", Value: hit.Platform},
				{Key: "Match Type", Value: string(hit.MatchType)},
				{Key: "Confidence", Value: fmt.Sprintf("%d%%", int(confidenceScore*100+0.5))},
			},
			ObservedAt: now,
		})
	}
	return signals
}

// buildExperimentalSignals emits the feature-flagged probes. They are always
// unverified and never influence scoring.
func (a *Adapter) buildExperimentalSignals() []Signal {
	now := a.now()
	experimental := []struct {
		id    string
		label string
	}{
		{"exp-group-visibility", "Public Group Visibility"},
		{"exp-status-exposure", "Status Update Exposure"},
	}

	signals := make([]Signal, 0, len(experimental))
	for _, e := range experimental {
		signals = append(signals, Signal{
			ID:              a.signalID(e.id),
			Category:        CategoryExperimental,
			Label:           e.label,
			Value:           Text("Analysis pending"),
			Confidence:      ConfidenceUnverified,
			ConfidenceScore: 0.2,
			Weight:          CategoryExperimental.BaseWeight(),
			ProOnly:         true,
			Experimental:    true,
			ObservedAt:      now,
		})
	}
	return signals
}
