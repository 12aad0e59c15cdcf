package signal

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/osintwatch/exposure/internal/providers"
)

// Platform identifies the messaging platform an adapter covers.
type Platform string

const (
	PlatformWhatsApp Platform = "whatsapp"
	PlatformTelegram Platform = "telegram"
)

// shortCode is the signal ID prefix for the platform.
func (p Platform) shortCode() string {
	switch p {
	case PlatformWhatsApp:
		return "wa"
	case PlatformTelegram:
		return "tg"
	default:
		return string(p)
	}
}

// DisplayName is the human-readable platform name used in signal labels.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformWhatsApp:
		return "WhatsApp"
	case PlatformTelegram:
		return "Telegram"
	default:
		return string(p)
	}
}

// Input is one adapter invocation: the scanned subject plus whatever raw
// observations the provider layer produced. Absent categories skip their
// builders entirely.
type Input struct {
	Subject string `json:"subject"`
	providers.Observations
}

// Adapter composes the per-category builders into one Process entry point
// for a single platform. Feature flags are injected at construction, never
// read from ambient state, so concurrent scans can run under different flag
// snapshots.
type Adapter struct {
	platform Platform
	flags    FeatureFlags
	logger   *zap.Logger
	now      func() time.Time
}

// NewAdapter creates an adapter for one platform with the given flag
// snapshot. A nil logger is replaced with a no-op logger.
func NewAdapter(platform Platform, flags FeatureFlags, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		platform: platform,
		flags:    flags,
		logger:   logger,
		now:      time.Now,
	}
}

func (a *Adapter) signalID(suffix string) string {
	return fmt.Sprintf("%s-%s", a.platform.shortCode(), suffix)
}

// Process turns raw observations into an immutable signal bundle. The basic
// flag is a hard gate: when it is off no builder runs and an empty bundle is
// returned immediately. Pro-tier builders always run when their input is
// present; tier-based hiding happens later at the visibility filter.
func (a *Adapter) Process(in Input) Bundle {
	if !a.flags.Basic {
		a.logger.Debug("platform disabled, skipping signal processing",
			zap.String("platform", string(a.platform)),
		)
		return Bundle{
			Subject:     in.Subject,
			Platform:    string(a.platform),
			Signals:     []Signal{},
			GeneratedAt: a.now(),
			FeatureFlags: FeatureFlags{
				Basic:        false,
				Experimental: false,
			},
		}
	}

	var signals []Signal

	// Core categories, always on when input is present.
	if in.Presence != nil {
		signals = append(signals, a.buildPresenceSignals(in.Presence)...)
		signals = append(signals, a.buildBusinessProfileSignals(in.Presence)...)
	}

	// Pro-tier categories. These run regardless of the caller's own tier.
	signals = append(signals, a.buildWebMentionSignals(in.WebMentions)...)
	signals = append(signals, a.buildScamDBSignals(in.ScamDBMatches)...)
	signals = append(signals, a.buildBreachSignals(in.BreachLinkages)...)
	signals = append(signals, a.buildCrossPlatformSignals(in.CrossPlatformHits)...)

	if a.flags.Experimental {
		signals = append(signals, a.buildExperimentalSignals()...)
	}

	if signals == nil {
		signals = []Signal{}
	}

	bundle := Bundle{
		Subject:           in.Subject,
		Platform:          string(a.platform),
		Signals:           signals,
		RiskContribution:  RiskScore(signals),
		OverallConfidence: OverallConfidence(signals),
		GeneratedAt:       a.now(),
		FeatureFlags:      a.flags,
	}

	a.logger.Debug("signal bundle generated",
		zap.String("platform", string(a.platform)),
		zap.Int("signals", len(bundle.Signals)),
		zap.Int("risk_contribution", bundle.RiskContribution),
		zap.Float64("overall_confidence", bundle.OverallConfidence),
	)

	return bundle
}
