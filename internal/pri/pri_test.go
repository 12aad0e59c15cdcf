package pri

import "testing"

// TestCompute_EmptyInput covers the clean-scan case: zero score, level
// "none", a present recommendation, and an empty (not nil) breakdown.
func TestCompute_EmptyInput(t *testing.T) {
	result := Compute(nil)

	if result.Score != 0 {
		t.Errorf("score = %d, want 0", result.Score)
	}
	if result.Level != LevelNone {
		t.Errorf("level = %s, want none", result.Level)
	}
	if result.Recommendation == "" {
		t.Error("recommendation missing for clean scan")
	}
	if result.Contributions == nil {
		t.Error("contributions should be an empty slice, not nil")
	}
	if len(result.Contributions) != 0 {
		t.Errorf("clean scan produced %d contributions", len(result.Contributions))
	}
}

// TestCompute_SingleCategory checks the weighted reduction for one
// populated category: a lone critical breach finding lands at 90 * 0.30.
func TestCompute_SingleCategory(t *testing.T) {
	result := Compute([]Finding{
		{Severity: SeverityCritical, Type: "credential_breach"},
	})

	if result.Score != 27 {
		t.Errorf("score = %d, want 27", result.Score)
	}
	if result.Level != LevelMedium {
		t.Errorf("level = %s, want medium", result.Level)
	}
	if len(result.Contributions) != 1 {
		t.Fatalf("expected 1 contribution, got %d", len(result.Contributions))
	}
	c := result.Contributions[0]
	if c.Category != CategoryBreachExposure || c.Findings != 1 || c.Score != 90 {
		t.Errorf("contribution = %+v", c)
	}
	if len(result.Remediation) != 1 || result.Remediation[0].Category != CategoryBreachExposure {
		t.Errorf("remediation = %+v", result.Remediation)
	}
}

// TestCompute_MultiCategory checks taxonomy ordering and the weighted sum
// across several categories.
func TestCompute_MultiCategory(t *testing.T) {
	result := Compute([]Finding{
		{Severity: SeverityMedium, Type: "whatsapp_presence"},
		{Severity: SeverityCritical, Type: "password_leak"},
		{Severity: SeverityHigh, Type: "data_broker_listing"},
	})

	// 90*0.30 + 70*0.20 + 45*0.10 = 45.5, rounds to 46.
	if result.Score != 46 {
		t.Errorf("score = %d, want 46", result.Score)
	}
	if result.Level != LevelMedium {
		t.Errorf("level = %s, want medium", result.Level)
	}

	wantOrder := []Category{CategoryBreachExposure, CategoryDataBroker, CategoryMessagingExposure}
	if len(result.Contributions) != len(wantOrder) {
		t.Fatalf("expected %d contributions, got %d", len(wantOrder), len(result.Contributions))
	}
	for i, c := range result.Contributions {
		if c.Category != wantOrder[i] {
			t.Errorf("contribution %d = %s, want %s (taxonomy order)", i, c.Category, wantOrder[i])
		}
	}
}

// TestCompute_ScoreBounds saturates one category with many critical findings
// and confirms the index stays within 0-100.
func TestCompute_ScoreBounds(t *testing.T) {
	var findings []Finding
	for range [40]struct{}{} {
		findings = append(findings, Finding{Severity: SeverityCritical, Type: "credential_breach"})
	}

	result := Compute(findings)
	if result.Score < 0 || result.Score > 100 {
		t.Fatalf("score %d out of bounds", result.Score)
	}
	if result.Contributions[0].Score != 100 {
		t.Errorf("saturated sub-score = %d, want 100", result.Contributions[0].Score)
	}
}

// TestCompute_UnknownTypeNeverFails routes unknown finding types to the
// zero-weight bucket so they appear in the breakdown without moving the
// score.
func TestCompute_UnknownTypeNeverFails(t *testing.T) {
	result := Compute([]Finding{
		{Severity: SeverityCritical, Type: "quantum_entanglement"},
	})

	if result.Score != 0 {
		t.Errorf("uncategorized finding moved the score to %d", result.Score)
	}
	if result.Level != LevelNone {
		t.Errorf("level = %s, want none", result.Level)
	}
	if len(result.Contributions) != 1 {
		t.Fatalf("expected the uncategorized contribution, got %d entries", len(result.Contributions))
	}
	c := result.Contributions[0]
	if c.Category != CategoryUncategorized || c.Weight != 0 {
		t.Errorf("contribution = %+v, want zero-weight uncategorized", c)
	}
	if len(result.Remediation) != 0 {
		t.Errorf("uncategorized findings produced remediation hints: %+v", result.Remediation)
	}
}

// TestSubScore_Monotonic verifies the curve rises with both severity and
// count and saturates at 100.
func TestSubScore_Monotonic(t *testing.T) {
	severities := []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(severities); i++ {
		lo, hi := subScore(severities[i-1], 1), subScore(severities[i], 1)
		if hi <= lo {
			t.Errorf("subScore(%s,1)=%d not above subScore(%s,1)=%d",
				severities[i], hi, severities[i-1], lo)
		}
	}

	prev := 0
	for count := 1; count <= 15; count++ {
		got := subScore(SeverityMedium, count)
		if got < prev {
			t.Errorf("subScore(medium,%d)=%d dropped below %d", count, got, prev)
		}
		if got > 100 {
			t.Errorf("subScore(medium,%d)=%d exceeds 100", count, got)
		}
		prev = got
	}

	if got := subScore(SeverityCritical, 0); got != 0 {
		t.Errorf("subScore with zero findings = %d, want 0", got)
	}
}

// TestSubScore_UnknownSeverity grades like informational.
func TestSubScore_UnknownSeverity(t *testing.T) {
	if got, want := subScore(Severity("bogus"), 1), subScore(SeverityInfo, 1); got != want {
		t.Errorf("unknown severity scored %d, want %d", got, want)
	}
}

// TestCompute_WorstSeveritySetsFloor confirms a category's floor comes from
// its most severe finding, not the first one seen.
func TestCompute_WorstSeveritySetsFloor(t *testing.T) {
	result := Compute([]Finding{
		{Severity: SeverityLow, Type: "breach_mention"},
		{Severity: SeverityCritical, Type: "credential_breach"},
	})

	// floor 90 (critical) + 8 for the extra finding = 98; weighted 0.30 = 29.4.
	if result.Contributions[0].Score != 98 {
		t.Errorf("sub-score = %d, want 98", result.Contributions[0].Score)
	}
	if result.Score != 29 {
		t.Errorf("score = %d, want 29", result.Score)
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		findingType string
		want        Category
	}{
		{"credential_breach", CategoryBreachExposure},
		{"password_leak", CategoryBreachExposure},
		{"data_broker_listing", CategoryDataBroker},
		{"people_search_result", CategoryDataBroker},
		{"open_port", CategoryIPInfrastructure},
		{"vpn_detection", CategoryIPInfrastructure},
		{"domain_blacklist", CategoryDomainReputation},
		{"dns_record", CategoryDomainReputation},
		{"whatsapp_presence", CategoryMessagingExposure},
		{"phone_reuse", CategoryMessagingExposure},
		{"social_profile", CategorySocialExposure},
		{"username_match", CategorySocialExposure},
		{"something_else", CategoryUncategorized},
		{"", CategoryUncategorized},
	}

	for _, tc := range cases {
		if got := Categorize(Finding{Type: tc.findingType}); got != tc.want {
			t.Errorf("Categorize(%q) = %s, want %s", tc.findingType, got, tc.want)
		}
	}
}

func TestLevelForScore(t *testing.T) {
	cases := []struct {
		score int
		want  Level
	}{
		{0, LevelNone},
		{1, LevelLow},
		{24, LevelLow},
		{25, LevelMedium},
		{49, LevelMedium},
		{50, LevelHigh},
		{74, LevelHigh},
		{75, LevelCritical},
		{100, LevelCritical},
	}

	for _, tc := range cases {
		if got := LevelForScore(tc.score); got != tc.want {
			t.Errorf("LevelForScore(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

// TestRecommendation_EveryLevelHasText guards the static guidance catalog.
func TestRecommendation_EveryLevelHasText(t *testing.T) {
	for _, l := range []Level{LevelNone, LevelLow, LevelMedium, LevelHigh, LevelCritical} {
		if l.Recommendation() == "" {
			t.Errorf("level %s has no recommendation text", l)
		}
	}
}
