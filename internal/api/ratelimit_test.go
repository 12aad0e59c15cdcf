package api

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/osintwatch/exposure/internal/config"
)

func testLimiterConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled: true,
		Tiers: map[string]config.TierLimit{
			"free": {RequestsPerMinute: 30},
			"pro":  {RequestsPerMinute: 300},
		},
	}
}

func TestTierLimit(t *testing.T) {
	rl := NewRateLimiter(nil, testLimiterConfig(), nil)

	cases := []struct {
		tier string
		want int
	}{
		{"free", 30},
		{"pro", 300},
		{"enterprise", 30}, // unknown tiers fall back to free
		{"", 30},
	}
	for _, tc := range cases {
		if got := rl.tierLimit(tc.tier); got != tc.want {
			t.Errorf("tierLimit(%q) = %d, want %d", tc.tier, got, tc.want)
		}
	}

	empty := NewRateLimiter(nil, config.RateLimitConfig{}, nil)
	if got := empty.tierLimit("free"); got != 0 {
		t.Errorf("no configured tiers: limit = %d, want 0 (unlimited)", got)
	}
}

// TestCheck_FailsOpen verifies an unreachable Redis never blocks requests.
func TestCheck_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	rl := NewRateLimiter(client, testLimiterConfig(), nil)
	result := rl.Check(context.Background(), "free", "198.51.100.7")

	if !result.Allowed {
		t.Error("limiter blocked a request while its store was down")
	}
	if result.Limit != 30 {
		t.Errorf("limit = %d, want 30", result.Limit)
	}
}

// TestCheck_ZeroLimitIsUnlimited covers tiers with no configured budget.
func TestCheck_ZeroLimitIsUnlimited(t *testing.T) {
	rl := NewRateLimiter(nil, config.RateLimitConfig{}, nil)
	result := rl.Check(context.Background(), "free", "198.51.100.7")

	if !result.Allowed {
		t.Error("zero limit should mean unlimited")
	}
}
