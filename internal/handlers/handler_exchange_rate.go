package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/dto"
	"github.com/SscSPs/stock_insights_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

const msgDateRequired = "Date required (YYYY-MM-DD)"

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: ers}
}

// RegisterExchangeRateRoutes registers the exchange rate cache routes on rg.
func RegisterExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange-rate")
	{
		exchangeRates.GET("", h.getRateForDate)
		exchangeRates.POST("", h.runCommand)
		exchangeRates.GET("/latest", h.getLatestRate)
	}
}

// getRateForDate godoc
// @Summary Get the cached exchange rate for a date
// @Description Returns the rate for the date, or the nearest cached date when missing. Falls back to the default rate on an empty cache.
// @Tags exchange rates
// @Produce  json
// @Param   date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Date required (YYYY-MM-DD)"
// @Router /exchange-rate [get]
func (h *exchangeRateHandler) getRateForDate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.ExchangeRateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Missing date for exchange rate lookup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgDateRequired})
		return
	}
	date, err := domain.ParseDate(strings.TrimSpace(query.Date))
	if err != nil {
		logger.Warn("Invalid date for exchange rate lookup", slog.String("date", query.Date))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgDateRequired})
		return
	}

	rate := h.exchangeRateService.RateForDate(c.Request.Context(), date)
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(date.Format(domain.DateLayout), rate))
}

// getLatestRate godoc
// @Summary Get the live exchange rate
// @Description Returns the current rate from the live provider, or the default rate when it is unavailable.
// @Tags exchange rates
// @Produce  json
// @Success 200 {object} dto.LatestRateResponse
// @Router /exchange-rate/latest [get]
func (h *exchangeRateHandler) getLatestRate(c *gin.Context) {
	rate := h.exchangeRateService.LatestRate(c.Request.Context())
	c.JSON(http.StatusOK, dto.LatestRateResponse{Rate: rate.InexactFloat64()})
}

// runCommand godoc
// @Summary Backfill the exchange rate cache or report its status
// @Description mode=yearly (default) fills Jan 1 of each year since 1999, mode=monthly fills the 15th of each month of year, mode=status reports coverage.
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   command body dto.ExchangeRateCommand false "Command"
// @Success 200 {object} dto.YearlyBackfillResponse
// @Success 200 {object} dto.MonthlyBackfillResponse
// @Success 200 {object} dto.BackfillStatusResponse
// @Failure 400 {object} map[string]string "Invalid mode"
// @Failure 500 {object} map[string]string "FIXER_API_KEY not configured"
// @Router /exchange-rate [post]
func (h *exchangeRateHandler) runCommand(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var cmd dto.ExchangeRateCommand
	if err := c.ShouldBindJSON(&cmd); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to bind JSON for exchange rate command", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	mode := strings.ToLower(strings.TrimSpace(cmd.Mode))
	if mode == "" {
		mode = dto.ModeYearly
	}
	logger = logger.With(slog.String("mode", mode))
	ctx := middleware.WithLogger(c.Request.Context(), logger)

	switch mode {
	case dto.ModeYearly:
		report, err := h.exchangeRateService.BackfillYearly(ctx)
		if err != nil {
			respondError(c, err, "Failed to backfill exchange rates")
			return
		}
		c.JSON(http.StatusOK, dto.ToYearlyBackfillResponse(report))

	case dto.ModeMonthly:
		report, err := h.exchangeRateService.BackfillMonthly(ctx, int(cmd.Year))
		if err != nil {
			respondError(c, err, "Failed to backfill exchange rates")
			return
		}
		c.JSON(http.StatusOK, dto.ToMonthlyBackfillResponse(report))

	case dto.ModeStatus:
		status, err := h.exchangeRateService.BackfillStatus(ctx)
		if err != nil {
			respondError(c, err, "Failed to read exchange rate status")
			return
		}
		c.JSON(http.StatusOK, dto.ToBackfillStatusResponse(status))

	default:
		logger.Warn("Unknown exchange rate command")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mode"})
	}
}
