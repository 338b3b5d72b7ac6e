// Package handlers implements the REST API endpoint handlers for
// DelveDNS.
//
// Endpoints:
//   - GET /api/v1/health  - Health check (includes journal connectivity)
//   - GET /api/v1/stats   - Runtime and DNS statistics
//   - GET /api/v1/queries - Recently journaled queries
//
// All endpoints except /health support optional API key authentication
// via the X-API-Key header.
package handlers

import (
	"log/slog"
	"sync"
	"time"

	"github.com/delvedns/delvedns/internal/config"
	"github.com/delvedns/delvedns/internal/journal"
)

// DNSStatsSnapshot contains a point-in-time snapshot of DNS statistics.
type DNSStatsSnapshot struct {
	QueriesTotal uint64
	ResponsesNX  uint64
	ResponsesErr uint64
	AvgLatencyMs float64
}

// DNSStatsFunc is a function that returns DNS statistics.
type DNSStatsFunc func() DNSStatsSnapshot

// Handler contains dependencies for API handlers.
type Handler struct {
	cfg       *config.Config
	logger    *slog.Logger
	startTime time.Time

	// Runtime components (set after server starts)
	dnsStatsFunc DNSStatsFunc
	journal      *journal.Journal
	mu           sync.RWMutex
}

// New creates a new Handler with the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		startTime: time.Now(),
	}
}

// SetDNSStatsFunc sets the function to retrieve DNS statistics.
func (h *Handler) SetDNSStatsFunc(fn DNSStatsFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dnsStatsFunc = fn
}

// GetDNSStatsFunc retrieves the DNS statistics function.
func (h *Handler) GetDNSStatsFunc() DNSStatsFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dnsStatsFunc
}

// SetJournal sets the query journal used by /queries and /health.
func (h *Handler) SetJournal(j *journal.Journal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.journal = j
}

// GetJournal retrieves the query journal.
func (h *Handler) GetJournal() *journal.Journal {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.journal
}
