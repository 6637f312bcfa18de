package controller

import (
	"drouple_backend/internal/service"
	"drouple_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary Member home feed
// @Description Upcoming events, my groups, pathway progress and announcements
// @Tags dashboard
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.DashboardService.GetDashboard(user.UserID, user.ChurchID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, dashboard)
}

// GetChurchStats godoc
// @Summary Church-level counters
// @Tags dashboard
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ChurchStats}
// @Router /api/admin/stats [get]
func (c *DashboardController) GetChurchStats(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.DashboardService.GetChurchStats(user.ChurchID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
