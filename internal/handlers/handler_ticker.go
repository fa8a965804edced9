package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/dto"
	"github.com/SscSPs/stock_insights_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tickerHandler serves the ticker registry.
type tickerHandler struct {
	tickerService portssvc.TickerSvcFacade
}

func newTickerHandler(ts portssvc.TickerSvcFacade) *tickerHandler {
	return &tickerHandler{tickerService: ts}
}

// RegisterTickerRoutes registers registry routes. Writes go through admin.
func RegisterTickerRoutes(rg *gin.RouterGroup, tickerService portssvc.TickerSvcFacade, admin gin.HandlerFunc) {
	h := newTickerHandler(tickerService)

	rg.GET("/tickers", h.listTickers)
	rg.POST("/tickers", admin, h.addTicker)
	rg.POST("/delete-ticker", admin, h.deleteTicker)
	rg.GET("/stocks-search", h.searchStocks)
}

// listTickers godoc
// @Summary List registered tickers
// @Description Lists the tickers of a market with the time their data was last refreshed ("Never" when not fetched yet).
// @Tags tickers
// @Produce  json
// @Param   market query string false "Market (US or IN)" default(US)
// @Success 200 {object} dto.ListTickersResponse
// @Failure 400 {object} map[string]string "Invalid market"
// @Failure 500 {object} map[string]string "Failed to list tickers"
// @Router /tickers [get]
func (h *tickerHandler) listTickers(c *gin.Context) {
	market := domain.Market(strings.ToUpper(strings.TrimSpace(c.DefaultQuery("market", string(domain.MarketUS)))))
	if market != domain.MarketUS && market != domain.MarketIN {
		c.JSON(http.StatusBadRequest, gin.H{"error": "market must be US or IN"})
		return
	}

	listings, err := h.tickerService.ListTickers(c.Request.Context(), market)
	if err != nil {
		respondError(c, err, "Failed to list tickers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTickersResponse(market, listings))
}

// addTicker godoc
// @Summary Register a ticker
// @Tags tickers
// @Accept  json
// @Produce  json
// @Param   ticker body dto.AddTickerRequest true "Ticker"
// @Success 200 {object} dto.AddTickerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to add ticker"
// @Security BearerAuth
// @Router /tickers [post]
func (h *tickerHandler) addTicker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddTickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddTicker", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	ticker, err := h.tickerService.AddTicker(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to add ticker")
		return
	}
	c.JSON(http.StatusOK, dto.AddTickerResponse{Success: true, Symbol: ticker.Symbol, Market: string(ticker.Market)})
}

// deleteTicker godoc
// @Summary Delete a ticker
// @Description Removes the ticker with its stored data and projection.
// @Tags tickers
// @Accept  json
// @Produce  json
// @Param   ticker body dto.TickerRequest true "Ticker"
// @Success 200 {object} dto.DeleteTickerResponse
// @Failure 400 {object} map[string]string "Ticker required"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to delete ticker"
// @Security BearerAuth
// @Router /delete-ticker [post]
func (h *tickerHandler) deleteTicker(c *gin.Context) {
	var req dto.TickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker required"})
		return
	}

	if err := h.tickerService.DeleteTicker(c.Request.Context(), req.Ticker); err != nil {
		respondError(c, err, "Failed to delete ticker")
		return
	}
	c.JSON(http.StatusOK, dto.DeleteTickerResponse{Success: true, Deleted: dto.NormalizeTicker(req.Ticker)})
}

// searchStocks godoc
// @Summary List stocks for the search dropdown
// @Tags tickers
// @Produce  json
// @Success 200 {object} dto.StockSearchResponse
// @Failure 500 {object} map[string]string "Failed to search stocks"
// @Router /stocks-search [get]
func (h *tickerHandler) searchStocks(c *gin.Context) {
	stocks, err := h.tickerService.SearchStocks(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to search stocks")
		return
	}
	c.JSON(http.StatusOK, dto.StockSearchResponse{Stocks: stocks})
}
