package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/delvedns/delvedns/internal/api"
	"github.com/delvedns/delvedns/internal/api/handlers"
	"github.com/delvedns/delvedns/internal/config"
	"github.com/delvedns/delvedns/internal/journal"
	"github.com/delvedns/delvedns/internal/resolver"
)

// Runner orchestrates DNS server startup, wiring, and shutdown.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a runner with the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run starts the resolver with the given configuration and blocks
// until SIGINT or SIGTERM.
func (r *Runner) Run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return r.RunWithContext(ctx, cfg)
}

// RunWithContext starts the resolver and blocks until ctx is canceled
// or a server error occurs.
//
// Startup order: journal, recursor, UDP server, management API. The
// API comes up last so its health endpoint never reports ok before the
// resolver can serve; shutdown runs in reverse.
func (r *Runner) RunWithContext(ctx context.Context, cfg *config.Config) error {
	ctx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	jnl, err := r.openJournal(cfg)
	if err != nil {
		return err
	}
	if jnl != nil {
		defer jnl.Close()
	}

	recursor := buildRecursor(cfg, r.logger)

	stats := NewStats()
	h := &QueryHandler{Logger: r.logger, Recursor: recursor, Timeout: cfg.QueryTimeout()}
	limiter := NewRateLimiter(RateLimitSettings{
		CleanupSeconds: cfg.RateLimit.CleanupSeconds,
		MaxIPEntries:   cfg.RateLimit.MaxIPEntries,
		GlobalQPS:      cfg.RateLimit.GlobalQPS,
		GlobalBurst:    cfg.RateLimit.GlobalBurst,
		IPQPS:          cfg.RateLimit.IPQPS,
		IPBurst:        cfg.RateLimit.IPBurst,
	})

	udp := &UDPServer{
		Logger:         r.logger,
		Handler:        h,
		Limiter:        limiter,
		Stats:          stats,
		Journal:        jnl,
		MaxConcurrency: cfg.Server.MaxConcurrency,
	}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	r.logStartup(cfg, addr)

	errCh := make(chan error, 2)
	go func() { errCh <- udp.Run(ctx, addr) }()

	apiServer := r.startAPI(cfg, stats, jnl, errCh)

	if jnl != nil {
		go r.pruneLoop(ctx, jnl, cfg.JournalRetention())
	}

	select {
	case <-ctx.Done():
		// shutdown requested via signal
	case err := <-errCh:
		if err != nil {
			cancelRun()
			r.shutdownAPI(apiServer)
			return err
		}
	}

	stopTimeout := 5 * time.Second
	r.shutdownAPI(apiServer)
	return udp.Stop(stopTimeout)
}

// openJournal opens the query journal when enabled.
func (r *Runner) openJournal(cfg *config.Config) (*journal.Journal, error) {
	if !cfg.Journal.Enabled {
		return nil, nil
	}
	jnl, err := journal.Open(cfg.Journal.Path, r.logger)
	if err != nil {
		return nil, err
	}
	if r.logger != nil {
		r.logger.Info("query journal enabled", "path", cfg.Journal.Path)
	}
	return jnl, nil
}

// buildRecursor constructs the resolution engine from configuration.
func buildRecursor(cfg *config.Config, logger *slog.Logger) *resolver.Recursor {
	rec := &resolver.Recursor{
		Exchanger: &resolver.UDPExchanger{Timeout: cfg.UpstreamTimeout()},
		MaxDepth:  cfg.Resolver.MaxDepth,
		Logger:    logger,
	}
	if cfg.Resolver.RootServer != "" {
		if addr, err := netip.ParseAddr(cfg.Resolver.RootServer); err == nil {
			rec.Root = addr
		}
	}
	return rec
}

// startAPI starts the management API when enabled. Listener errors are
// sent to errCh like DNS server errors.
func (r *Runner) startAPI(cfg *config.Config, stats *Stats, jnl *journal.Journal, errCh chan<- error) *api.Server {
	if !cfg.API.Enabled {
		return nil
	}

	h := handlers.New(cfg, r.logger)
	h.SetDNSStatsFunc(func() handlers.DNSStatsSnapshot {
		s := stats.Snapshot()
		return handlers.DNSStatsSnapshot{
			QueriesTotal: s.QueriesTotal,
			ResponsesNX:  s.ResponsesNX,
			ResponsesErr: s.ResponsesErr,
			AvgLatencyMs: s.AvgLatencyMs,
		}
	})
	if jnl != nil {
		h.SetJournal(jnl)
	}

	srv := api.New(cfg, r.logger, h)
	if r.logger != nil {
		r.logger.Info("management api listening", "addr", srv.Addr())
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return srv
}

func (r *Runner) shutdownAPI(srv *api.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

// pruneLoop deletes journal entries past retention once an hour.
func (r *Runner) pruneLoop(ctx context.Context, jnl *journal.Journal, retention time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := jnl.Prune(ctx, retention)
			if err != nil {
				if r.logger != nil {
					r.logger.Warn("journal prune failed", "error", err)
				}
				continue
			}
			if n > 0 && r.logger != nil {
				r.logger.Debug("journal pruned", "entries", n)
			}
		}
	}
}

// logStartup logs the effective serving configuration.
func (r *Runner) logStartup(cfg *config.Config, addr string) {
	if r.logger == nil {
		return
	}
	root := cfg.Resolver.RootServer
	if root == "" {
		root = resolver.DefaultRoot.String()
	}
	r.logger.Info("dns server starting",
		"addr", addr,
		"root_server", root,
		"max_concurrency", cfg.Server.MaxConcurrency,
		"query_timeout", cfg.Server.QueryTimeout,
		"journal", cfg.Journal.Enabled,
		"api", cfg.API.Enabled,
	)
}
