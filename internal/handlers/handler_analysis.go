package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/dto"
	"github.com/gin-gonic/gin"
)

type analysisHandler struct {
	analysisService portssvc.AnalysisSvcFacade
}

// RegisterAnalysisRoutes registers the LLM routes on rg.
func RegisterAnalysisRoutes(rg *gin.RouterGroup, analysisService portssvc.AnalysisSvcFacade) {
	h := &analysisHandler{analysisService: analysisService}

	rg.POST("/ai-chat", h.chat)
	rg.POST("/ai-compare", h.compare)
}

// chat godoc
// @Summary Ask a question about a stock
// @Description Answers using the stored data of the ticker. projections is set when the answer carries a projections object.
// @Tags analysis
// @Accept  json
// @Produce  json
// @Param   request body dto.AIChatRequest true "Question (message is accepted as an alias)"
// @Success 200 {object} dto.AIChatResponse
// @Failure 400 {object} map[string]string "Ticker and question required"
// @Failure 500 {object} map[string]string "GEMINI_API_KEY not configured"
// @Failure 502 {object} map[string]string "AI error"
// @Router /ai-chat [post]
func (h *analysisHandler) chat(c *gin.Context) {
	var req dto.AIChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	analysis, err := h.analysisService.Chat(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "AI request failed")
		return
	}
	c.JSON(http.StatusOK, dto.AIChatResponse{Response: analysis.Response, Projections: analysis.Projections})
}

// compare godoc
// @Summary Compare several stocks
// @Tags analysis
// @Accept  json
// @Produce  json
// @Param   request body dto.AICompareRequest true "Tickers (at least 2) and an optional question"
// @Success 200 {object} dto.AICompareResponse
// @Failure 400 {object} map[string]string "At least 2 tickers required"
// @Failure 404 {object} map[string]string "Could not fetch data for comparison"
// @Failure 502 {object} map[string]string "AI error"
// @Router /ai-compare [post]
func (h *analysisHandler) compare(c *gin.Context) {
	var req dto.AICompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	analysis, err := h.analysisService.Compare(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "AI request failed")
		return
	}
	c.JSON(http.StatusOK, dto.AICompareResponse{Response: analysis.Response, Tickers: analysis.Tickers})
}
