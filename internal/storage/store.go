// Package storage persists scan records: per-platform signal bundles, the
// cross-source finding list, and the computed risk index, all keyed by scan
// ID. Two implementations share one interface: Redis for deployments and an
// in-memory store for tests and redis-less setups.
package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/osintwatch/exposure/internal/pri"
	"github.com/osintwatch/exposure/internal/signal"
)

// Common errors.
var (
	ErrNotFound = errors.New("scan record not found")
)

// Store is the persistence boundary for scan records.
type Store interface {
	SaveBundle(ctx context.Context, scanID string, bundle signal.Bundle) error
	GetBundle(ctx context.Context, scanID, platform string) (signal.Bundle, error)
	AppendFindings(ctx context.Context, scanID string, findings []pri.Finding) error
	GetFindings(ctx context.Context, scanID string) ([]pri.Finding, error)
	SaveRiskIndex(ctx context.Context, scanID string, result pri.Result) error
	GetRiskIndex(ctx context.Context, scanID string) (pri.Result, error)
	Ping(ctx context.Context) error
}

// MemoryStore is a mutex-guarded in-process Store. Scan records never expire
// here; it is meant for tests and single-node development.
type MemoryStore struct {
	mu       sync.RWMutex
	bundles  map[string]signal.Bundle // key: scanID + "/" + platform
	findings map[string][]pri.Finding
	indexes  map[string]pri.Result
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bundles:  make(map[string]signal.Bundle),
		findings: make(map[string][]pri.Finding),
		indexes:  make(map[string]pri.Result),
	}
}

func bundleKey(scanID, platform string) string {
	return scanID + "/" + platform
}

// SaveBundle stores a bundle under its scan and platform.
func (s *MemoryStore) SaveBundle(_ context.Context, scanID string, bundle signal.Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundles[bundleKey(scanID, bundle.Platform)] = bundle
	return nil
}

// GetBundle returns the bundle for one scan and platform.
func (s *MemoryStore) GetBundle(_ context.Context, scanID, platform string) (signal.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bundle, ok := s.bundles[bundleKey(scanID, platform)]
	if !ok {
		return signal.Bundle{}, ErrNotFound
	}
	return bundle, nil
}

// AppendFindings adds findings to a scan's cross-source list.
func (s *MemoryStore) AppendFindings(_ context.Context, scanID string, findings []pri.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findings[scanID] = append(s.findings[scanID], findings...)
	return nil
}

// GetFindings returns all findings recorded for a scan. A scan with no
// findings yields an empty list, not an error.
func (s *MemoryStore) GetFindings(_ context.Context, scanID string) ([]pri.Finding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	findings := s.findings[scanID]
	out := make([]pri.Finding, len(findings))
	copy(out, findings)
	return out, nil
}

// SaveRiskIndex stores the computed risk index for a scan.
func (s *MemoryStore) SaveRiskIndex(_ context.Context, scanID string, result pri.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[scanID] = result
	return nil
}

// GetRiskIndex returns the last computed risk index for a scan.
func (s *MemoryStore) GetRiskIndex(_ context.Context, scanID string) (pri.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.indexes[scanID]
	if !ok {
		return pri.Result{}, ErrNotFound
	}
	return result, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
