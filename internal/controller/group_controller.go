package controller

import (
	"errors"
	"strconv"

	"drouple_backend/internal/model"
	"drouple_backend/internal/service"
	"drouple_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
}

func NewGroupController(groupService *service.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

// List godoc
// @Summary List life groups
// @Tags groups
// @Produce  json
// @Security BearerAuth
// @Param   page  query int false "Page"  default(1)
// @Param   limit query int false "Limit" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/groups [get]
func (c *GroupController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	groups, total, err := c.GroupService.List(user.ChurchID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: groups, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Life group detail
// @Tags groups
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Group ID"
// @Success 200 {object} util.Response{data=model.LifeGroup}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/groups/{id} [get]
func (c *GroupController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	group, err := c.GroupService.Get(util.MustParseUint(ctx.Param("id")), user.ChurchID)
	if err != nil {
		if errors.Is(err, util.ErrGroupNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, group)
}

// MyGroups godoc
// @Summary Groups I belong to
// @Tags groups
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.LifeGroup}
// @Router /api/groups/mine [get]
func (c *GroupController) MyGroups(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	groups, err := c.GroupService.MyGroups(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, groups)
}

// Join godoc
// @Summary Join a life group
// @Description Idempotent; rejoining an already joined group returns the existing membership
// @Tags groups
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Group ID"
// @Success 200 {object} util.Response{data=model.GroupMembership}
// @Failure 404 {object} util.Response "Not found"
// @Failure 409 {object} util.Response "Group is full"
// @Router /api/groups/{id}/join [post]
func (c *GroupController) Join(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	membership, err := c.GroupService.Join(util.MustParseUint(ctx.Param("id")), user.UserID, user.ChurchID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrGroupNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrGroupFull):
			util.Error(ctx, 409, "group is full")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, membership)
}

// Leave godoc
// @Summary Leave a life group
// @Tags groups
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Group ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Not a member"
// @Router /api/groups/{id}/leave [post]
func (c *GroupController) Leave(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.GroupService.Leave(util.MustParseUint(ctx.Param("id")), user.UserID, user.ChurchID); err != nil {
		if errors.Is(err, util.ErrGroupNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// Roster godoc
// @Summary Active members of a group
// @Tags groups
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Group ID"
// @Success 200 {object} util.Response{data=[]model.User}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/groups/{id}/roster [get]
func (c *GroupController) Roster(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	roster, err := c.GroupService.Roster(util.MustParseUint(ctx.Param("id")), user.ChurchID)
	if err != nil {
		if errors.Is(err, util.ErrGroupNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, roster)
}

// swagger:model GroupRequest
type GroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	LeaderID    uint   `json:"leaderId"`
	Schedule    string `json:"schedule"`
	Capacity    int    `json:"capacity"`
}

// Create godoc
// @Summary Create a life group
// @Tags groups
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body GroupRequest true "Group"
// @Success 201 {object} util.Response{data=model.LifeGroup}
// @Router /api/admin/groups [post]
func (c *GroupController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group := &model.LifeGroup{
		ChurchID:    user.ChurchID,
		Name:        req.Name,
		Description: req.Description,
		LeaderID:    req.LeaderID,
		Schedule:    req.Schedule,
		Capacity:    req.Capacity,
	}
	if err := c.GroupService.Create(group); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, group)
}

// Update godoc
// @Summary Update a life group
// @Tags groups
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int          true "Group ID"
// @Param   body body GroupRequest true "Changes"
// @Success 200 {object} util.Response{data=model.LifeGroup}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/groups/{id} [put]
func (c *GroupController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.GroupService.Get(util.MustParseUint(ctx.Param("id")), user.ChurchID)
	if err != nil {
		if errors.Is(err, util.ErrGroupNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	group.Name = req.Name
	group.Description = req.Description
	group.LeaderID = req.LeaderID
	group.Schedule = req.Schedule
	group.Capacity = req.Capacity
	if err := c.GroupService.Update(group); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, group)
}

// Delete godoc
// @Summary Delete a life group
// @Tags groups
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Group ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/groups/{id} [delete]
func (c *GroupController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.GroupService.Delete(util.MustParseUint(ctx.Param("id")), user.ChurchID); err != nil {
		if errors.Is(err, util.ErrGroupNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
