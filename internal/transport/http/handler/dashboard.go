package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopy/internal/app"
	"shopy/internal/transport/http/response"
)

type DashboardHandler struct {
	dashboardService *app.DashboardService
}

func NewDashboardHandler(dashboardService *app.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Metrics(c *gin.Context) {
	metrics, err := h.dashboardService.Metrics()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load dashboard metrics failed")
		return
	}
	response.OK(c, metrics)
}
