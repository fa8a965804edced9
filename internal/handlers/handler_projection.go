package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/dto"
	"github.com/gin-gonic/gin"
)

type projectionHandler struct {
	projectionService portssvc.ProjectionSvcFacade
}

// RegisterProjectionRoutes registers the saved projection routes on rg.
func RegisterProjectionRoutes(rg *gin.RouterGroup, projectionService portssvc.ProjectionSvcFacade) {
	h := &projectionHandler{projectionService: projectionService}

	projections := rg.Group("/projections")
	{
		projections.GET("", h.getProjection)
		projections.POST("", h.saveProjection)
	}
}

// getProjection godoc
// @Summary Get the saved projection for a ticker
// @Description Returns the saved projection document, or {} when nothing was saved.
// @Tags projections
// @Produce  json
// @Param   ticker query string true "Ticker"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Ticker required"
// @Router /projections [get]
func (h *projectionHandler) getProjection(c *gin.Context) {
	ticker := c.Query("ticker")
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker required"})
		return
	}

	data, err := h.projectionService.GetProjection(c.Request.Context(), ticker)
	if err != nil {
		respondError(c, err, "Failed to load projection")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// saveProjection godoc
// @Summary Save a projection for a ticker
// @Tags projections
// @Accept  json
// @Produce  json
// @Param   projection body dto.SaveProjectionRequest true "Projection"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /projections [post]
func (h *projectionHandler) saveProjection(c *gin.Context) {
	var req dto.SaveProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	if err := h.projectionService.SaveProjection(c.Request.Context(), req); err != nil {
		respondError(c, err, "Failed to save projection")
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
