package handlers

import (
	"net/http"

	"github.com/SscSPs/stock_insights_api/internal/dto"
	"github.com/gin-gonic/gin"
)

// getStatus godoc
// @Summary Show the status of the refresh queue.
// @Description The server refreshes synchronously, so the queue is always idle and empty.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router /status [get]
func getStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.StatusResponse{Status: "Idle", QueueLength: 0, Mode: "server"})
}

// registerStatusRoutes registers the '/status' route
func registerStatusRoutes(group *gin.RouterGroup) {
	group.GET("/status", getStatus)
}
