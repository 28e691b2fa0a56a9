package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/greenminds/greenminds-api/internal/errors"
	"github.com/greenminds/greenminds-api/internal/middleware"
	"github.com/greenminds/greenminds-api/internal/services"
	"github.com/sirupsen/logrus"
)

// DashboardHandler handles the dashboard statistics route.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.dashboardService.Stats(userID)
	if err != nil {
		logrus.WithError(err).Error("failed to compute dashboard stats")
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, stats)
}
