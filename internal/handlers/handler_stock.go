package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/dto"
	"github.com/SscSPs/stock_insights_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// stockHandler serves stored stock data and triggers refreshes.
type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

func newStockHandler(ss portssvc.StockSvcFacade) *stockHandler {
	return &stockHandler{stockService: ss}
}

// RegisterStockRoutes registers stock data routes. The batch refresh goes through admin.
func RegisterStockRoutes(rg *gin.RouterGroup, stockService portssvc.StockSvcFacade, admin gin.HandlerFunc) {
	h := newStockHandler(stockService)

	rg.GET("/stock-data", h.getStockData)
	rg.POST("/request-ticker", h.requestTicker)
	rg.POST("/refresh-ticker", h.refreshTicker)
	rg.POST("/admin-refresh", admin, h.adminRefresh)
}

// getStockData godoc
// @Summary Get stored stock data
// @Description Returns the stored provider payload for a ticker.
// @Tags stocks
// @Produce  json
// @Param   ticker query string true "Ticker"
// @Success 200 {object} domain.StockPayload
// @Failure 400 {object} map[string]string "Ticker required"
// @Failure 404 {object} map[string]string "Data not found locally."
// @Router /stock-data [get]
func (h *stockHandler) getStockData(c *gin.Context) {
	ticker := c.Query("ticker")
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker required"})
		return
	}

	data, err := h.stockService.GetStockData(c.Request.Context(), ticker)
	if err != nil {
		respondError(c, err, "Failed to load stock data")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// requestTicker godoc
// @Summary Fetch and register a ticker
// @Description Fetches the ticker from the quote provider, stores it and adds it to the registry.
// @Tags stocks
// @Accept  json
// @Produce  json
// @Param   ticker body dto.TickerRequest true "Ticker"
// @Success 200 {object} dto.RequestTickerResponse
// @Failure 400 {object} map[string]string "Ticker required"
// @Failure 502 {object} map[string]string "Alpha Vantage API limit reached"
// @Router /request-ticker [post]
func (h *stockHandler) requestTicker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker required"})
		return
	}

	ticker, err := h.stockService.RequestTicker(c.Request.Context(), req.Ticker)
	if err != nil {
		respondError(c, err, "Failed to fetch ticker")
		return
	}
	logger.Info("Ticker fetched", slog.String("ticker", ticker.Symbol))
	c.JSON(http.StatusOK, dto.RequestTickerResponse{Success: true, Ticker: ticker.Symbol, Market: string(ticker.Market)})
}

// refreshTicker godoc
// @Summary Refresh a ticker unless it is already up to date
// @Tags stocks
// @Accept  json
// @Produce  json
// @Param   ticker body dto.TickerRequest true "Ticker"
// @Success 200 {object} dto.RefreshTickerResponse
// @Failure 400 {object} map[string]string "Ticker required"
// @Failure 502 {object} map[string]string "Upstream failure"
// @Router /refresh-ticker [post]
func (h *stockHandler) refreshTicker(c *gin.Context) {
	var req dto.TickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker required"})
		return
	}

	outcome, err := h.stockService.RefreshTicker(c.Request.Context(), req.Ticker)
	if err != nil {
		respondError(c, err, "Failed to refresh ticker")
		return
	}

	if outcome.Status == domain.RefreshSkipped {
		lastUpdated := "today"
		if outcome.LastUpdated != nil {
			lastUpdated = outcome.LastUpdated.Format(time.DateTime)
		}
		c.JSON(http.StatusOK, dto.RefreshTickerResponse{
			Message: fmt.Sprintf("%s is already up to date (last updated: %s)", outcome.Ticker, lastUpdated),
			Skipped: true,
		})
		return
	}
	c.JSON(http.StatusOK, dto.RefreshTickerResponse{
		Message: fmt.Sprintf("%s refreshed successfully!", outcome.Ticker),
		Success: true,
	})
}

// adminRefresh godoc
// @Summary Refresh a batch of tickers
// @Description Refreshes each ticker independently. type=smart (default) skips tickers refreshed today, type=force always fetches.
// @Tags stocks
// @Accept  json
// @Produce  json
// @Param   request body dto.AdminRefreshRequest true "Tickers"
// @Success 200 {object} dto.AdminRefreshResponse
// @Failure 400 {object} map[string]string "No tickers provided"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /admin-refresh [post]
func (h *stockHandler) adminRefresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AdminRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdminRefresh", slog.String("error", err.Error()))
		if len(req.Tickers) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No tickers provided"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	mode := domain.RefreshMode(req.Type)
	if mode == "" {
		mode = domain.RefreshSmart
	}

	outcomes := h.stockService.RefreshBatch(c.Request.Context(), req.Tickers, mode)
	c.JSON(http.StatusOK, dto.ToAdminRefreshResponse(outcomes))
}
