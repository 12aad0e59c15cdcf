package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/osintwatch/exposure/internal/pri"
	"github.com/osintwatch/exposure/internal/signal"
)

const keyPrefix = "exposure:scan"

// RedisStore persists scan records in Redis with a per-scan TTL. Records are
// stored as JSON: bundles and risk indexes as plain strings, findings as a
// list so appends from concurrent platform workers never clobber each other.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store. A zero TTL means records never
// expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) bundleKey(scanID, platform string) string {
	return fmt.Sprintf("%s:%s:bundle:%s", keyPrefix, scanID, platform)
}

func (s *RedisStore) findingsKey(scanID string) string {
	return fmt.Sprintf("%s:%s:findings", keyPrefix, scanID)
}

func (s *RedisStore) riskIndexKey(scanID string) string {
	return fmt.Sprintf("%s:%s:risk_index", keyPrefix, scanID)
}

// SaveBundle stores a bundle under its scan and platform.
func (s *RedisStore) SaveBundle(ctx context.Context, scanID string, bundle signal.Bundle) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("marshaling bundle: %w", err)
	}

	if err := s.client.Set(ctx, s.bundleKey(scanID, bundle.Platform), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing bundle: %w", err)
	}
	return nil
}

// GetBundle returns the bundle for one scan and platform.
func (s *RedisStore) GetBundle(ctx context.Context, scanID, platform string) (signal.Bundle, error) {
	data, err := s.client.Get(ctx, s.bundleKey(scanID, platform)).Bytes()
	if err == redis.Nil {
		return signal.Bundle{}, ErrNotFound
	}
	if err != nil {
		return signal.Bundle{}, fmt.Errorf("fetching bundle: %w", err)
	}

	var bundle signal.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return signal.Bundle{}, fmt.Errorf("decoding bundle: %w", err)
	}
	return bundle, nil
}

// AppendFindings pushes findings onto the scan's finding list.
func (s *RedisStore) AppendFindings(ctx context.Context, scanID string, findings []pri.Finding) error {
	if len(findings) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(findings))
	for _, f := range findings {
		data, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("marshaling finding: %w", err)
		}
		values = append(values, data)
	}

	key := s.findingsKey(scanID)
	if err := s.client.RPush(ctx, key, values...).Err(); err != nil {
		return fmt.Errorf("appending findings: %w", err)
	}
	if s.ttl > 0 {
		s.client.Expire(ctx, key, s.ttl)
	}
	return nil
}

// GetFindings returns all findings recorded for a scan. Entries that fail to
// decode are skipped rather than failing the whole read.
func (s *RedisStore) GetFindings(ctx context.Context, scanID string) ([]pri.Finding, error) {
	entries, err := s.client.LRange(ctx, s.findingsKey(scanID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("fetching findings: %w", err)
	}

	findings := make([]pri.Finding, 0, len(entries))
	for _, entry := range entries {
		var f pri.Finding
		if err := json.Unmarshal([]byte(entry), &f); err != nil {
			continue
		}
		findings = append(findings, f)
	}
	return findings, nil
}

// SaveRiskIndex stores the computed risk index for a scan.
func (s *RedisStore) SaveRiskIndex(ctx context.Context, scanID string, result pri.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling risk index: %w", err)
	}

	if err := s.client.Set(ctx, s.riskIndexKey(scanID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing risk index: %w", err)
	}
	return nil
}

// GetRiskIndex returns the last computed risk index for a scan.
func (s *RedisStore) GetRiskIndex(ctx context.Context, scanID string) (pri.Result, error) {
	data, err := s.client.Get(ctx, s.riskIndexKey(scanID)).Bytes()
	if err == redis.Nil {
		return pri.Result{}, ErrNotFound
	}
	if err != nil {
		return pri.Result{}, fmt.Errorf("fetching risk index: %w", err)
	}

	var result pri.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return pri.Result{}, fmt.Errorf("decoding risk index: %w", err)
	}
	return result, nil
}

// Ping verifies Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
