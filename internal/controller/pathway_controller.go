package controller

import (
	"errors"
	"strconv"

	"drouple_backend/internal/model"
	"drouple_backend/internal/service"
	"drouple_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PathwayController struct {
	PathwayService *service.PathwayService
	AdminService   *service.PathwayAdminService
	MemberService  *service.MemberService
}

func NewPathwayController(pathwayService *service.PathwayService, adminService *service.PathwayAdminService, memberService *service.MemberService) *PathwayController {
	return &PathwayController{
		PathwayService: pathwayService,
		AdminService:   adminService,
		MemberService:  memberService,
	}
}

// ListPathways godoc
// @Summary List the church's pathways
// @Tags pathways
// @Produce  json
// @Security BearerAuth
// @Param   page  query int false "Page"  default(1)
// @Param   limit query int false "Limit" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/pathways [get]
func (c *PathwayController) ListPathways(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	pathways, total, err := c.AdminService.ListPathways(user.ChurchID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: pathways, Total: total, Page: page, Limit: limit})
}

// GetPathway godoc
// @Summary Pathway detail with its steps
// @Tags pathways
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Pathway ID"
// @Success 200 {object} util.Response{data=model.Pathway}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/pathways/{id} [get]
func (c *PathwayController) GetPathway(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	pathway, err := c.AdminService.GetPathway(util.MustParseUint(ctx.Param("id")), user.ChurchID)
	if err != nil {
		if errors.Is(err, util.ErrPathwayNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, pathway)
}

// Enroll godoc
// @Summary Enroll in a pathway
// @Description Idempotent; re-enrolling returns the existing enrollment
// @Tags pathways
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Pathway ID"
// @Success 200 {object} util.Response{data=model.PathwayEnrollment}
// @Failure 404 {object} util.Response "Pathway not found"
// @Router /api/pathways/{id}/enroll [post]
func (c *PathwayController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.PathwayService.Enroll(user.UserID, util.MustParseUint(ctx.Param("id")), user.ChurchID)
	if err != nil {
		if errors.Is(err, util.ErrPathwayNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, enrollment)
}

// Drop godoc
// @Summary Drop out of a pathway
// @Tags pathways
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Pathway ID"
// @Success 200 {object} util.Response{data=model.PathwayEnrollment}
// @Failure 404 {object} util.Response "No active enrollment"
// @Router /api/pathways/{id}/drop [post]
func (c *PathwayController) Drop(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.PathwayService.Drop(util.MustParseUint(ctx.Param("id")), user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, enrollment)
}

// CompleteStepRequest marks a step done. UserID lets leaders record
// completion on behalf of a member; members may only complete their own.
// swagger:model CompleteStepRequest
type CompleteStepRequest struct {
	UserID uint   `json:"userId"`
	Notes  string `json:"notes"`
}

// CompleteStep godoc
// @Summary Mark a pathway step complete
// @Description Idempotent; completing the last step completes the enrollment
// @Tags pathways
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int                 true  "Step ID"
// @Param   body body CompleteStepRequest false "Target member and notes"
// @Success 200 {object} util.Response{data=model.PathwayProgress}
// @Failure 403 {object} util.Response "Members may only complete their own steps"
// @Failure 404 {object} util.Response "Step not found"
// @Router /api/pathways/steps/{id}/complete [post]
func (c *PathwayController) CompleteStep(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CompleteStepRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	targetID := user.UserID
	var completedBy *uint
	if req.UserID != 0 && req.UserID != user.UserID {
		if user.Role != model.Leader && user.Role != model.Admin {
			util.Forbidden(ctx)
			return
		}
		targetID = req.UserID
		leaderID := user.UserID
		completedBy = &leaderID
	}

	progress, err := c.PathwayService.CompleteStep(util.MustParseUint(ctx.Param("id")), targetID, user.ChurchID, completedBy, req.Notes)
	if err != nil {
		if errors.Is(err, util.ErrStepNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, progress)
}

// MyProgress godoc
// @Summary Progress across all my enrollments
// @Tags pathways
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.PathwayProgressSummary}
// @Router /api/pathways/my-progress [get]
func (c *PathwayController) MyProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	summaries, err := c.PathwayService.GetUserProgress(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, summaries)
}

// MemberProgress godoc
// @Summary Progress of another member
// @Tags pathways
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "User ID"
// @Success 200 {object} util.Response{data=[]service.PathwayProgressSummary}
// @Failure 404 {object} util.Response "Member not found"
// @Router /api/pathways/members/{id}/progress [get]
func (c *PathwayController) MemberProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	targetID := util.MustParseUint(ctx.Param("id"))
	if _, err := c.MemberService.GetMemberInChurch(targetID, user.ChurchID); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	summaries, err := c.PathwayService.GetUserProgress(targetID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, summaries)
}

// AutoEnroll godoc
// @Summary Auto-enroll a new believer in the foundation pathway
// @Description No-op when the member is not flagged as a new believer
// @Tags pathways
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "User ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "Member not found"
// @Router /api/admin/members/{id}/auto-enroll [post]
func (c *PathwayController) AutoEnroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	targetID := util.MustParseUint(ctx.Param("id"))
	if _, err := c.MemberService.GetMemberInChurch(targetID, user.ChurchID); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	enrollment, err := c.PathwayService.AutoEnrollNewBeliever(targetID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	if enrollment == nil {
		util.Success(ctx, gin.H{"enrolled": false})
		return
	}

	util.Success(ctx, gin.H{"enrolled": true, "enrollment": enrollment})
}

// swagger:model CreatePathwayRequest
type CreatePathwayRequest struct {
	Type        string `json:"type" binding:"required,oneof=foundation growth intensive"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreatePathway godoc
// @Summary Create a pathway
// @Tags pathways
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreatePathwayRequest true "Pathway"
// @Success 201 {object} util.Response{data=model.Pathway}
// @Router /api/admin/pathways [post]
func (c *PathwayController) CreatePathway(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreatePathwayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pathway := &model.Pathway{
		ChurchID:    user.ChurchID,
		Type:        model.PathwayType(req.Type),
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := c.AdminService.CreatePathway(pathway); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, pathway)
}

// swagger:model UpdatePathwayRequest
type UpdatePathwayRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Active      *bool  `json:"active" binding:"required"`
}

// UpdatePathway godoc
// @Summary Update a pathway
// @Tags pathways
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int                  true "Pathway ID"
// @Param   body body UpdatePathwayRequest true "Changes"
// @Success 200 {object} util.Response{data=model.Pathway}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/pathways/{id} [put]
func (c *PathwayController) UpdatePathway(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdatePathwayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pathway, err := c.AdminService.UpdatePathway(util.MustParseUint(ctx.Param("id")), user.ChurchID,
		req.Name, req.Description, *req.Active)
	if err != nil {
		if errors.Is(err, util.ErrPathwayNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, pathway)
}

// swagger:model StepRequest
type StepRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	OrderIndex  int    `json:"orderIndex"`
}

// AddStep godoc
// @Summary Add a step to a pathway
// @Tags pathways
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int         true "Pathway ID"
// @Param   body body StepRequest true "Step"
// @Success 201 {object} util.Response{data=model.PathwayStep}
// @Failure 404 {object} util.Response "Pathway not found"
// @Router /api/admin/pathways/{id}/steps [post]
func (c *PathwayController) AddStep(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StepRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	step := &model.PathwayStep{
		Name:        req.Name,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
	}
	if err := c.AdminService.AddStep(util.MustParseUint(ctx.Param("id")), user.ChurchID, step); err != nil {
		if errors.Is(err, util.ErrPathwayNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, step)
}

// UpdateStep godoc
// @Summary Update a step
// @Tags pathways
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int         true "Step ID"
// @Param   body body StepRequest true "Changes"
// @Success 200 {object} util.Response{data=model.PathwayStep}
// @Failure 404 {object} util.Response "Step not found"
// @Router /api/admin/pathways/steps/{id} [put]
func (c *PathwayController) UpdateStep(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StepRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	step, err := c.AdminService.UpdateStep(util.MustParseUint(ctx.Param("id")), user.ChurchID,
		req.Name, req.Description, req.OrderIndex)
	if err != nil {
		if errors.Is(err, util.ErrStepNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, step)
}

// RemoveStep godoc
// @Summary Delete a step
// @Tags pathways
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Step ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Step not found"
// @Router /api/admin/pathways/steps/{id} [delete]
func (c *PathwayController) RemoveStep(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AdminService.RemoveStep(util.MustParseUint(ctx.Param("id")), user.ChurchID); err != nil {
		if errors.Is(err, util.ErrStepNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
