package controller

import (
	"errors"
	"strconv"
	"time"

	"drouple_backend/internal/model"
	"drouple_backend/internal/service"
	"drouple_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CheckinController struct {
	CheckinService *service.CheckinService
}

func NewCheckinController(checkinService *service.CheckinService) *CheckinController {
	return &CheckinController{CheckinService: checkinService}
}

// swagger:model CreateServiceRequest
type CreateServiceRequest struct {
	Name        string    `json:"name" binding:"required"`
	ServiceDate time.Time `json:"serviceDate" binding:"required"`
}

// CreateService godoc
// @Summary Schedule a service
// @Tags checkin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateServiceRequest true "Service"
// @Success 201 {object} util.Response{data=model.Service}
// @Router /api/admin/services [post]
func (c *CheckinController) CreateService(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateServiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	svc := &model.Service{
		ChurchID:    user.ChurchID,
		Name:        req.Name,
		ServiceDate: req.ServiceDate,
	}
	if err := c.CheckinService.CreateService(svc); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, svc)
}

// ListServices godoc
// @Summary List services
// @Tags checkin
// @Produce  json
// @Security BearerAuth
// @Param   page  query int false "Page"  default(1)
// @Param   limit query int false "Limit" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/services [get]
func (c *CheckinController) ListServices(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	services, total, err := c.CheckinService.ListServices(user.ChurchID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: services, Total: total, Page: page, Limit: limit})
}

// TodayServices godoc
// @Summary Services happening today
// @Tags checkin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Service}
// @Router /api/services/today [get]
func (c *CheckinController) TodayServices(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	services, err := c.CheckinService.TodayServices(user.ChurchID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, services)
}

// CheckInRequest records attendance. NewBeliever is the first-timer answer
// from the door; answering yes triggers foundation pathway enrollment.
// swagger:model CheckInRequest
type CheckInRequest struct {
	NewBeliever bool `json:"newBeliever"`
}

// CheckIn godoc
// @Summary Check in to a service
// @Description Idempotent; checking in twice returns the original record
// @Tags checkin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int            true  "Service ID"
// @Param   body body CheckInRequest false "First-timer flag"
// @Success 200 {object} util.Response{data=model.ServiceCheckin}
// @Failure 404 {object} util.Response "Service not found"
// @Router /api/services/{id}/checkin [post]
func (c *CheckinController) CheckIn(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CheckInRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	checkin, err := c.CheckinService.CheckIn(util.MustParseUint(ctx.Param("id")), user.UserID, user.ChurchID, req.NewBeliever)
	if err != nil {
		if errors.Is(err, util.ErrServiceNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, checkin)
}

// Attendance godoc
// @Summary Attendance counts for a service
// @Tags checkin
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Service ID"
// @Success 200 {object} util.Response{data=service.ServiceAttendance}
// @Failure 404 {object} util.Response "Service not found"
// @Router /api/services/{id}/attendance [get]
func (c *CheckinController) Attendance(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attendance, err := c.CheckinService.Attendance(util.MustParseUint(ctx.Param("id")), user.ChurchID)
	if err != nil {
		if errors.Is(err, util.ErrServiceNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attendance)
}
