package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/osintwatch/exposure/internal/pri"
	"github.com/osintwatch/exposure/internal/signal"
)

func TestMemoryStore_Bundles(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	bundle := signal.Bundle{
		Subject:          "+14155550123",
		Platform:         "whatsapp",
		Signals:          []signal.Signal{},
		RiskContribution: 42,
	}
	if err := store.SaveBundle(ctx, "scan-1", bundle); err != nil {
		t.Fatalf("SaveBundle: %v", err)
	}

	got, err := store.GetBundle(ctx, "scan-1", "whatsapp")
	if err != nil {
		t.Fatalf("GetBundle: %v", err)
	}
	if got.Subject != bundle.Subject || got.RiskContribution != 42 {
		t.Errorf("got %+v", got)
	}

	// Bundles are keyed per platform within a scan.
	if _, err := store.GetBundle(ctx, "scan-1", "telegram"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other platform err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetBundle(ctx, "scan-2", "whatsapp"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other scan err = %v, want ErrNotFound", err)
	}

	// Saving again overwrites.
	bundle.RiskContribution = 7
	if err := store.SaveBundle(ctx, "scan-1", bundle); err != nil {
		t.Fatalf("SaveBundle overwrite: %v", err)
	}
	got, _ = store.GetBundle(ctx, "scan-1", "whatsapp")
	if got.RiskContribution != 7 {
		t.Errorf("overwrite lost: %d", got.RiskContribution)
	}
}

func TestMemoryStore_Findings(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// No findings is an empty list, not an error.
	got, err := store.GetFindings(ctx, "scan-1")
	if err != nil {
		t.Fatalf("GetFindings on empty scan: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty scan returned %d findings", len(got))
	}

	if err := store.AppendFindings(ctx, "scan-1", []pri.Finding{
		{Severity: pri.SeverityHigh, Type: "credential_breach"},
	}); err != nil {
		t.Fatalf("AppendFindings: %v", err)
	}
	if err := store.AppendFindings(ctx, "scan-1", []pri.Finding{
		{Severity: pri.SeverityLow, Type: "social_profile"},
		{Severity: pri.SeverityMedium, Type: "data_broker_listing"},
	}); err != nil {
		t.Fatalf("AppendFindings: %v", err)
	}

	got, err = store.GetFindings(ctx, "scan-1")
	if err != nil {
		t.Fatalf("GetFindings: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(got))
	}
	if got[0].Type != "credential_breach" || got[2].Type != "data_broker_listing" {
		t.Errorf("append order lost: %+v", got)
	}

	// The returned slice is a copy; mutating it must not affect the store.
	got[0].Type = "mutated"
	again, _ := store.GetFindings(ctx, "scan-1")
	if again[0].Type != "credential_breach" {
		t.Error("GetFindings returned a live reference to internal state")
	}
}

func TestMemoryStore_RiskIndex(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.GetRiskIndex(ctx, "scan-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing index err = %v, want ErrNotFound", err)
	}

	result := pri.Result{Score: 46, Level: pri.LevelMedium}
	if err := store.SaveRiskIndex(ctx, "scan-1", result); err != nil {
		t.Fatalf("SaveRiskIndex: %v", err)
	}

	got, err := store.GetRiskIndex(ctx, "scan-1")
	if err != nil {
		t.Fatalf("GetRiskIndex: %v", err)
	}
	if got.Score != 46 || got.Level != pri.LevelMedium {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryStore_Ping(t *testing.T) {
	if err := NewMemoryStore().Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
