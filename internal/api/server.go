// Package api exposes the signal-processing and risk-index engine over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/osintwatch/exposure/internal/config"
	"github.com/osintwatch/exposure/internal/observability"
	"github.com/osintwatch/exposure/internal/pri"
	"github.com/osintwatch/exposure/internal/signal"
	"github.com/osintwatch/exposure/internal/storage"
)

// Server wires the scoring engine, scan store, and middleware into a chi
// router.
type Server struct {
	cfg     *config.Config
	store   storage.Store
	logger  *zap.Logger
	metrics *observability.Metrics
	limiter *RateLimiter
}

// NewServer creates an API server. The rate limiter may be nil, in which
// case no limiting middleware is installed.
func NewServer(cfg *config.Config, store storage.Store, logger *zap.Logger, metrics *observability.Metrics, limiter *RateLimiter) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		metrics: metrics,
		limiter: limiter,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.cfg.Auth.APIKeyEnv, s.logger))
		if s.limiter != nil {
			r.Use(s.limiter.Middleware(tierFromRequest))
		}

		r.Post("/scans", s.handleCreateScan)
		r.Route("/scans/{scanID}", func(r chi.Router) {
			r.Post("/platforms/{platform}/signals", s.handleProcessSignals)
			r.Get("/platforms/{platform}/signals", s.handleGetSignals)
			r.Post("/findings", s.handleAppendFindings)
			r.Post("/risk-index", s.handleComputeRiskIndex)
			r.Get("/risk-index", s.handleGetRiskIndex)
		})
	})

	return r
}

// tierFromRequest resolves the viewer's subscription tier. Billing is
// resolved upstream; by the time a request reaches this service the tier is
// just a label.
func tierFromRequest(r *http.Request) string {
	tier := r.Header.Get("X-Subscription-Tier")
	if tier == "" {
		tier = r.URL.Query().Get("tier")
	}
	tier = strings.ToLower(tier)
	if tier != "pro" {
		tier = "free"
	}
	return tier
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("readiness check failed", zap.Error(err))
		s.respondError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusCreated, map[string]string{"scan_id": uuid.NewString()})
}

func (s *Server) handleProcessSignals(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")
	platform := chi.URLParam(r, "platform")

	var in signal.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Subject == "" {
		s.respondError(w, http.StatusBadRequest, "subject is required")
		return
	}

	flags := s.cfg.PlatformFlags(platform)
	adapter := signal.NewAdapter(signal.Platform(platform), signal.FeatureFlags{
		Basic:        flags.Basic,
		Experimental: flags.Experimental,
	}, s.logger)

	bundle := adapter.Process(in)

	if err := s.store.SaveBundle(r.Context(), scanID, bundle); err != nil {
		s.logger.Error("failed to store bundle",
			zap.String("scan_id", scanID),
			zap.String("platform", platform),
			zap.Error(err),
		)
		s.respondError(w, http.StatusInternalServerError, "failed to store bundle")
		return
	}

	if s.metrics != nil {
		s.metrics.BundlesBuilt.WithLabelValues(platform).Inc()
		for _, sig := range bundle.Signals {
			s.metrics.SignalsEmitted.WithLabelValues(platform, string(sig.Category)).Inc()
		}
	}

	s.respondJSON(w, http.StatusOK, bundle)
}

// bundleResponse is a bundle with its signals already tier-filtered, plus an
// optional category grouping for display.
type bundleResponse struct {
	signal.Bundle
	Groups map[signal.Category][]signal.Signal `json:"groups,omitempty"`
}

func (s *Server) handleGetSignals(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")
	platform := chi.URLParam(r, "platform")

	bundle, err := s.store.GetBundle(r.Context(), scanID, platform)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "bundle not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to fetch bundle", zap.String("scan_id", scanID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to fetch bundle")
		return
	}

	pro := tierFromRequest(r) == "pro"
	resp := bundleResponse{Bundle: bundle}
	resp.Signals = bundle.VisibleSignals(pro)

	if r.URL.Query().Get("grouped") == "true" {
		resp.Groups = signal.GroupByCategory(resp.Signals)
	}

	s.respondJSON(w, http.StatusOK, resp)
}

type findingsRequest struct {
	Findings []pri.Finding `json:"findings"`
}

func (s *Server) handleAppendFindings(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	var req findingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	valid, skipped := validFindings(req.Findings)
	if skipped > 0 {
		s.logger.Warn("skipped malformed findings",
			zap.String("scan_id", scanID),
			zap.Int("skipped", skipped),
		)
	}

	if err := s.store.AppendFindings(r.Context(), scanID, valid); err != nil {
		s.logger.Error("failed to store findings", zap.String("scan_id", scanID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to store findings")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]int{"stored": len(valid), "skipped": skipped})
}

func (s *Server) handleComputeRiskIndex(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	// Findings may be supplied inline; they are appended before computing so
	// the stored record and the index always agree.
	var req findingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Findings) > 0 {
		valid, _ := validFindings(req.Findings)
		if err := s.store.AppendFindings(r.Context(), scanID, valid); err != nil {
			s.logger.Error("failed to store findings", zap.String("scan_id", scanID), zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, "failed to store findings")
			return
		}
	}

	findings, err := s.store.GetFindings(r.Context(), scanID)
	if err != nil {
		s.logger.Error("failed to fetch findings", zap.String("scan_id", scanID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to fetch findings")
		return
	}

	result := pri.Compute(findings)

	if err := s.store.SaveRiskIndex(r.Context(), scanID, result); err != nil {
		s.logger.Error("failed to store risk index", zap.String("scan_id", scanID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to store risk index")
		return
	}

	if s.metrics != nil {
		s.metrics.RiskIndexesComputed.Inc()
		s.metrics.RiskIndexScore.Observe(float64(result.Score))
	}

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetRiskIndex(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	result, err := s.store.GetRiskIndex(r.Context(), scanID)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "risk index not computed")
		return
	}
	if err != nil {
		s.logger.Error("failed to fetch risk index", zap.String("scan_id", scanID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to fetch risk index")
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

// validFindings drops findings missing their type. The engine tolerates
// anything else; an empty type would always land in the zero-weight bucket
// and is the one shape the edge rejects outright.
func validFindings(findings []pri.Finding) ([]pri.Finding, int) {
	valid := make([]pri.Finding, 0, len(findings))
	skipped := 0
	for _, f := range findings {
		if f.Type == "" {
			skipped++
			continue
		}
		valid = append(valid, f)
	}
	return valid, skipped
}

// requestLogger logs each request and records request metrics.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		if s.metrics != nil {
			s.metrics.RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
		}

		s.logger.Debug("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
