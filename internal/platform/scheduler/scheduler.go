package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/middleware"
	"github.com/robfig/cron/v3"
)

// DefaultJobTimeout bounds a single scheduled run.
const DefaultJobTimeout = 30 * time.Minute

// Scheduler runs the periodic stock refresh and exchange rate backfill.
type Scheduler struct {
	cron       *cron.Cron
	logger     *slog.Logger
	stocks     portssvc.StockRefresherSvc
	rates      portssvc.ExchangeRateBackfillSvc
	jobTimeout time.Duration

	mu      sync.Mutex
	running bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithJobTimeout overrides DefaultJobTimeout.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.jobTimeout = d
		}
	}
}

// New creates a scheduler. Overlapping runs of the same job are skipped.
func New(stocks portssvc.StockRefresherSvc, rates portssvc.ExchangeRateBackfillSvc, logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger.With(slog.String("component", "scheduler"))}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:     cl.logger,
		stocks:     stocks,
		rates:      rates,
		jobTimeout: DefaultJobTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds the jobs whose schedule is set. An empty schedule disables that job.
func (s *Scheduler) Register(stockRefreshSpec, rateBackfillSpec string) error {
	if stockRefreshSpec != "" {
		if _, err := s.cron.AddFunc(stockRefreshSpec, s.job("stock_refresh", s.RefreshStocks)); err != nil {
			return fmt.Errorf("failed to schedule stock refresh %q: %w", stockRefreshSpec, err)
		}
		s.logger.Info("Stock refresh scheduled", slog.String("cron", stockRefreshSpec))
	}
	if rateBackfillSpec != "" {
		if _, err := s.cron.AddFunc(rateBackfillSpec, s.job("rate_backfill", s.BackfillRates)); err != nil {
			return fmt.Errorf("failed to schedule exchange rate backfill %q: %w", rateBackfillSpec, err)
		}
		s.logger.Info("Exchange rate backfill scheduled", slog.String("cron", rateBackfillSpec))
	}
	return nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in the background. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("Scheduler started", slog.Int("jobs", s.Jobs()))
}

// Stop halts the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stopped before running jobs finished")
	}
}

// RefreshStocks smart-refreshes every registered ticker.
func (s *Scheduler) RefreshStocks(ctx context.Context) error {
	outcomes, err := s.stocks.RefreshAll(ctx, domain.RefreshSmart)
	if err != nil {
		return err
	}

	var refreshed, skipped, failed int
	for _, o := range outcomes {
		switch o.Status {
		case domain.RefreshSuccess:
			refreshed++
		case domain.RefreshSkipped:
			skipped++
		default:
			failed++
			s.logger.Warn("Scheduled refresh failed", slog.String("ticker", o.Ticker), slog.String("error", o.Error))
		}
	}
	s.logger.Info("Scheduled stock refresh finished",
		slog.Int("refreshed", refreshed), slog.Int("skipped", skipped), slog.Int("failed", failed))
	return nil
}

// BackfillRates fills the current year's monthly samples.
func (s *Scheduler) BackfillRates(ctx context.Context) error {
	report, err := s.rates.BackfillMonthly(ctx, 0)
	if err != nil {
		return err
	}
	s.logger.Info("Scheduled exchange rate backfill finished",
		slog.Int("year", report.Year), slog.Int("success", report.Success),
		slog.Int("failed", report.Failed), slog.Int("skipped", report.Skipped))
	return nil
}

func (s *Scheduler) job(name string, run func(context.Context) error) func() {
	return func() {
		logger := s.logger.With(slog.String("job", name))
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		ctx = middleware.WithLogger(ctx, logger)

		start := time.Now()
		if err := run(ctx); err != nil {
			logger.Error("Scheduled job failed", slog.String("error", err.Error()), slog.Duration("elapsed", time.Since(start)))
			return
		}
		logger.Debug("Scheduled job done", slog.Duration("elapsed", time.Since(start)))
	}
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
