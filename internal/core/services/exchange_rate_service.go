package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/apperrors"
	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/SscSPs/stock_insights_api/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/stock_insights_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/platform/metrics"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	// DefaultBackfillInterval is the minimum gap between two historical rate provider calls.
	DefaultBackfillInterval = 100 * time.Millisecond

	historicalProviderSetting = "FIXER_API_KEY"
)

// Lookup tiers, in the order they are tried.
const (
	tierExact   = "exact"
	tierBefore  = "before"
	tierAfter   = "after"
	tierDefault = "default"
)

// Backfill item outcomes.
const (
	outcomeSuccess = "success"
	outcomeFailed  = "failed"
	outcomeSkipped = "skipped"
)

// exchangeRateService implements the ExchangeRateSvcFacade interface
type exchangeRateService struct {
	BaseService
	rateRepo   portsrepo.ExchangeRateRepositoryFacade
	historical providers.HistoricalRateProvider
	latest     providers.LatestRateProvider
	pacer      providers.Pacer
	pair       domain.CurrencyPair
	metrics    *metrics.Metrics
}

// ExchangeRateServiceOption is a functional option for configuring the exchange rate service
type ExchangeRateServiceOption func(*exchangeRateService)

// WithHistoricalRateProvider sets the provider used by backfills. Without one, backfills fail
// with a configuration error.
func WithHistoricalRateProvider(p providers.HistoricalRateProvider) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.historical = p
	}
}

// WithLatestRateProvider sets the provider behind LatestRate.
func WithLatestRateProvider(p providers.LatestRateProvider) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.latest = p
	}
}

// WithPacer replaces the pacing policy applied before each historical provider call.
func WithPacer(p providers.Pacer) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.pacer = p
	}
}

// WithBackfillInterval paces historical provider calls at most one per interval.
func WithBackfillInterval(interval time.Duration) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.pacer = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithClock overrides time.Now, which decides the current year and what counts as a future date.
func WithClock(now func() time.Time) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.now = now
	}
}

// WithCurrencyPair sets the pair samples describe. Defaults to USD/INR.
func WithCurrencyPair(pair domain.CurrencyPair) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.pair = pair
	}
}

// WithExchangeRateMetrics attaches Prometheus recorders.
func WithExchangeRateMetrics(m *metrics.Metrics) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.metrics = m
	}
}

// NewExchangeRateService creates a new exchange rate service with the provided options
func NewExchangeRateService(repo portsrepo.ExchangeRateRepositoryFacade, options ...ExchangeRateServiceOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{
		rateRepo: repo,
		pair:     domain.CurrencyPair{Base: "USD", Quote: "INR"},
		pacer:    rate.NewLimiter(rate.Every(DefaultBackfillInterval), 1),
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure exchangeRateService implements the ExchangeRateSvcFacade interface
var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// RateForDate answers from the cache: exact date, else nearest on or before, else nearest after,
// else the default rate. Store failures are logged and treated as a miss.
func (s *exchangeRateService) RateForDate(ctx context.Context, date time.Time) decimal.Decimal {
	date = domain.NormalizeDate(date)

	tiers := []struct {
		name string
		find func(context.Context, time.Time) (*domain.ExchangeRateSample, error)
	}{
		{tierExact, s.rateRepo.FindSampleByDate},
		{tierBefore, s.rateRepo.FindNearestOnOrBefore},
		{tierAfter, s.rateRepo.FindNearestAfter},
	}

	for _, tier := range tiers {
		sample, err := tier.find(ctx, date)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				s.LogError(ctx, err, "Exchange rate lookup failed, trying next tier",
					slog.String("tier", tier.name),
					slog.String("date", date.Format(domain.DateLayout)))
			}
			continue
		}
		if sample == nil || !sample.Rate.IsPositive() {
			continue
		}
		s.metrics.RecordRateLookup(tier.name)
		return sample.Rate
	}

	s.metrics.RecordRateLookup(tierDefault)
	s.LogDebug(ctx, "No cached exchange rate, using default", slog.String("date", date.Format(domain.DateLayout)))
	return domain.DefaultExchangeRate
}

// LatestRate asks the live provider and falls back to the default rate on any failure.
func (s *exchangeRateService) LatestRate(ctx context.Context) decimal.Decimal {
	if s.latest == nil {
		return domain.DefaultExchangeRate
	}

	res, err := s.latest.LatestRate(ctx, s.pair.Base, s.pair.Quote)
	if err != nil {
		s.metrics.RecordUpstreamCall("latest_rate", "error")
		s.LogError(ctx, err, "Latest exchange rate request failed, using default")
		return domain.DefaultExchangeRate
	}
	s.metrics.RecordUpstreamCall("latest_rate", res.Kind.String())
	if !res.IsOK() || !res.Payload.IsPositive() {
		s.LogWarn(ctx, "Latest exchange rate unavailable, using default",
			slog.String("result", res.Kind.String()),
			slog.String("detail", res.Detail))
		return domain.DefaultExchangeRate
	}
	return res.Payload
}

// BackfillStatus reports the cache's sample count and date coverage.
func (s *exchangeRateService) BackfillStatus(ctx context.Context) (*domain.BackfillStatus, error) {
	count, err := s.rateRepo.CountSamples(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to count exchange rate samples")
		return nil, err
	}
	oldest, newest, err := s.rateRepo.FindDateRange(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read exchange rate date range")
		return nil, err
	}
	return &domain.BackfillStatus{Count: count, OldestDate: oldest, NewestDate: newest}, nil
}

// BackfillYearly seeds Jan 1 of every year from domain.BackfillStartYear through the current year.
func (s *exchangeRateService) BackfillYearly(ctx context.Context) (*domain.BackfillReport, error) {
	if s.historical == nil {
		return nil, apperrors.NewConfigurationError(historicalProviderSetting)
	}

	currentYear := s.Now().Year()
	targets := make([]time.Time, 0, currentYear-domain.BackfillStartYear+1)
	for year := domain.BackfillStartYear; year <= currentYear; year++ {
		targets = append(targets, domain.YearlyTargetDate(year))
	}

	report := &domain.BackfillReport{Mode: domain.BackfillYearly}
	if err := s.backfill(ctx, report, targets); err != nil {
		return nil, err
	}
	return report, nil
}

// BackfillMonthly seeds the 15th of each month of year. Year 0 means the current year.
// Target dates after today are left out without being counted, so a future year yields an empty report.
func (s *exchangeRateService) BackfillMonthly(ctx context.Context, year int) (*domain.BackfillReport, error) {
	if s.historical == nil {
		return nil, apperrors.NewConfigurationError(historicalProviderSetting)
	}

	now := s.Now()
	if year == 0 {
		year = now.Year()
	}

	today := domain.NormalizeDate(now)
	targets := make([]time.Time, 0, 12)
	for month := time.January; month <= time.December; month++ {
		target := domain.MonthlyTargetDate(year, month)
		if target.After(today) {
			continue
		}
		targets = append(targets, target)
	}

	report := &domain.BackfillReport{Mode: domain.BackfillMonthly, Year: year}
	if err := s.backfill(ctx, report, targets); err != nil {
		return nil, err
	}
	return report, nil
}

// backfill walks targets sequentially. Provider problems only fail the item; store errors and
// context cancellation abort the run.
func (s *exchangeRateService) backfill(ctx context.Context, report *domain.BackfillReport, targets []time.Time) error {
	mode := string(report.Mode)
	report.Written = []domain.ExchangeRateSample{}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		dateStr := target.Format(domain.DateLayout)

		_, err := s.rateRepo.FindSampleByDate(ctx, target)
		if err == nil {
			report.Skipped++
			s.metrics.RecordBackfillItem(mode, outcomeSkipped)
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Exchange rate backfill aborted on store error", slog.String("date", dateStr))
			return err
		}

		if err := s.pacer.Wait(ctx); err != nil {
			return err
		}

		rateValue, ok := s.fetchRate(ctx, target)
		if !ok {
			report.Failed++
			s.metrics.RecordBackfillItem(mode, outcomeFailed)
			continue
		}

		sample := domain.ExchangeRateSample{
			Date:      target,
			Rate:      rateValue,
			Source:    s.historical.Name(),
			CreatedAt: s.Now().UTC(),
		}
		written, err := s.rateRepo.InsertSampleIfAbsent(ctx, sample)
		if err != nil {
			s.LogError(ctx, err, "Exchange rate backfill aborted on store error", slog.String("date", dateStr))
			return err
		}
		if !written {
			// Another run stored this date between the check and the insert.
			report.Skipped++
			s.metrics.RecordBackfillItem(mode, outcomeSkipped)
			continue
		}

		report.Success++
		report.Written = append(report.Written, sample)
		s.metrics.RecordBackfillItem(mode, outcomeSuccess)
	}

	s.LogInfo(ctx, "Exchange rate backfill complete",
		slog.String("mode", mode),
		slog.Int("year", report.Year),
		slog.Int("success", report.Success),
		slog.Int("failed", report.Failed),
		slog.Int("skipped", report.Skipped))
	return nil
}

// fetchRate asks the historical provider for date and derives the pair's cross rate.
func (s *exchangeRateService) fetchRate(ctx context.Context, date time.Time) (decimal.Decimal, bool) {
	provider := s.historical.Name()
	dateStr := date.Format(domain.DateLayout)

	res, err := s.historical.HistoricalRates(ctx, date, []string{s.pair.Base, s.pair.Quote})
	if err != nil {
		s.metrics.RecordUpstreamCall(provider, "error")
		s.LogError(ctx, err, "Historical rate request failed", slog.String("date", dateStr))
		return decimal.Zero, false
	}
	s.metrics.RecordUpstreamCall(provider, res.Kind.String())

	switch res.Kind {
	case providers.ResultOK:
		crossRate, err := domain.CrossRate(res.Payload, s.pair)
		if err != nil {
			s.LogWarn(ctx, "Historical rate payload unusable", slog.String("date", dateStr), slog.String("error", err.Error()))
			return decimal.Zero, false
		}
		return crossRate, true
	case providers.ResultLimitReached:
		s.LogWarn(ctx, "Historical rate provider limit reached", slog.String("date", dateStr), slog.String("detail", res.Detail))
	default:
		s.LogWarn(ctx, "Historical rate payload malformed", slog.String("date", dateStr), slog.String("detail", res.Detail))
	}
	return decimal.Zero, false
}
