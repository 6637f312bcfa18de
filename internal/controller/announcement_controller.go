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

type AnnouncementController struct {
	AnnouncementService *service.AnnouncementService
}

func NewAnnouncementController(announcementService *service.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{AnnouncementService: announcementService}
}

// Feed godoc
// @Summary Published announcements
// @Tags announcements
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Announcement}
// @Router /api/announcements [get]
func (c *AnnouncementController) Feed(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	feed, err := c.AnnouncementService.Feed(user.ChurchID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, feed)
}

// ListAll godoc
// @Summary All announcements including drafts
// @Tags announcements
// @Produce  json
// @Security BearerAuth
// @Param   page  query int false "Page"  default(1)
// @Param   limit query int false "Limit" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/announcements [get]
func (c *AnnouncementController) ListAll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	list, total, err := c.AnnouncementService.ListAll(user.ChurchID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

// AnnouncementRequest creates or edits an announcement. A future
// ScheduledAt defers publishing to the background job; Notify emails the
// church's members when the announcement goes live.
// swagger:model AnnouncementRequest
type AnnouncementRequest struct {
	Title       string     `json:"title" binding:"required"`
	Body        string     `json:"body" binding:"required"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Notify      bool       `json:"notify"`
}

// Create godoc
// @Summary Create an announcement
// @Tags announcements
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body AnnouncementRequest true "Announcement"
// @Success 201 {object} util.Response{data=model.Announcement}
// @Router /api/admin/announcements [post]
func (c *AnnouncementController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a := &model.Announcement{
		ChurchID:    user.ChurchID,
		AuthorID:    user.UserID,
		Title:       req.Title,
		Body:        req.Body,
		ScheduledAt: req.ScheduledAt,
		Notify:      req.Notify,
	}
	if err := c.AnnouncementService.Create(a); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, a)
}

// Update godoc
// @Summary Update an announcement
// @Tags announcements
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int                 true "Announcement ID"
// @Param   body body AnnouncementRequest true "Changes"
// @Success 200 {object} util.Response{data=model.Announcement}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/announcements/{id} [put]
func (c *AnnouncementController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AnnouncementService.Get(util.MustParseUint(ctx.Param("id")), user.ChurchID)
	if err != nil {
		if errors.Is(err, util.ErrAnnouncementNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	a.Title = req.Title
	a.Body = req.Body
	a.ScheduledAt = req.ScheduledAt
	a.Notify = req.Notify
	if err := c.AnnouncementService.Update(a); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, a)
}

// Publish godoc
// @Summary Publish an announcement now
// @Tags announcements
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Announcement ID"
// @Success 200 {object} util.Response{data=model.Announcement}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/announcements/{id}/publish [post]
func (c *AnnouncementController) Publish(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	a, err := c.AnnouncementService.Publish(util.MustParseUint(ctx.Param("id")), user.ChurchID)
	if err != nil {
		if errors.Is(err, util.ErrAnnouncementNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, a)
}

// Delete godoc
// @Summary Delete an announcement
// @Tags announcements
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Announcement ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/announcements/{id} [delete]
func (c *AnnouncementController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AnnouncementService.Delete(util.MustParseUint(ctx.Param("id")), user.ChurchID); err != nil {
		if errors.Is(err, util.ErrAnnouncementNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
