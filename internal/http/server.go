// Package http exposes the ledger over a JSON API: record CRUD, the
// attachment store, month summaries, backup import/export, and the
// iCalendar feeds.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"librospese/internal/cache"
	"librospese/internal/core"
	applog "librospese/internal/log"
	"librospese/internal/middleware/ratelimit"
	"librospese/internal/middleware/security"
	"librospese/internal/middleware/trace"
	"librospese/internal/services"
)

const (
	summaryCacheSize = 24
	summaryCacheTTL  = 5 * time.Minute
)

// Server wires the ledger service to the HTTP API.
type Server struct {
	httpServer *http.Server
	ledger     *services.LedgerService

	summaryCache *cache.LRUCache[core.MonthSummary]
	cacheManager *cache.Manager

	limiter  *ratelimit.Limiter
	detector *security.Detector

	maxAttachmentBytes int64
}

// NewServer builds the server with its full middleware chain: request
// tracing, rate limiting, then security headers.
func NewServer(addr string, ledger *services.LedgerService, maxAttachmentBytes int64) *Server {
	s := &Server{
		ledger:             ledger,
		summaryCache:       cache.NewLRUCache[core.MonthSummary](summaryCacheSize, summaryCacheTTL),
		cacheManager:       cache.NewManager(),
		limiter:            ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:           security.NewDetector(),
		maxAttachmentBytes: maxAttachmentBytes,
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(time.Minute)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/records", s.handleListRecords)
	mux.HandleFunc("POST /api/records", s.handleCreateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", s.handleDeleteRecord)
	mux.HandleFunc("POST /api/records/{id}/paid", s.handleMarkPaid)

	mux.HandleFunc("PUT /api/records/{id}/attachment", s.handlePutAttachment)
	mux.HandleFunc("GET /api/records/{id}/attachment", s.handleGetAttachment)
	mux.HandleFunc("DELETE /api/records/{id}/attachment", s.handleDeleteAttachment)

	mux.HandleFunc("GET /api/summary", s.handleSummary)

	mux.HandleFunc("GET /api/export/json", s.handleExportJSON)
	mux.HandleFunc("GET /api/export/csv", s.handleExportCSV)
	mux.HandleFunc("GET /api/export/xlsx", s.handleExportXLSX)
	mux.HandleFunc("POST /api/import", s.handleImport)

	mux.HandleFunc("GET /api/calendar.ics", s.handleCalendar)
	mux.HandleFunc("GET /api/records/{id}/calendar.ics", s.handleRecordCalendar)

	traceMW := trace.NewMiddleware(s.detector.ExtractClientIP)
	limitMW := s.limiter.Middleware(s.detector.ExtractClientIP, nil)
	headersMW := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	logMW := applog.Middleware(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP))

	handler := traceMW.Middleware(limitMW(headersMW.Middleware(logMW(s.withDetection(mux)))))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the full middleware chain, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving requests until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the background loops.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	s.cacheManager.Stop()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) withDetection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request blocked",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// invalidateSummaries drops every cached month summary. Called after any
// mutation that can change aggregates.
func (s *Server) invalidateSummaries() {
	s.summaryCache.Purge()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready once the ledger service answers; it loads at startup.
	if _, err := s.ledger.List(r.Context(), core.Filter{}); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
