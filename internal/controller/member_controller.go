package controller

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"

	"drouple_backend/internal/service"
	"drouple_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MemberController struct {
	MemberService  *service.MemberService
	StorageService *service.StorageService
}

func NewMemberController(memberService *service.MemberService, storageService *service.StorageService) *MemberController {
	return &MemberController{
		MemberService:  memberService,
		StorageService: storageService,
	}
}

// Directory godoc
// @Summary Member directory
// @Description Members of the caller's church, optionally filtered by name or email
// @Tags members
// @Produce  json
// @Security BearerAuth
// @Param   search query string false "Name or email filter"
// @Param   page   query int    false "Page"  default(1)
// @Param   limit  query int    false "Limit" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/members [get]
func (c *MemberController) Directory(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	members, total, err := c.MemberService.Directory(user.ChurchID, ctx.Query("search"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: members, Total: total, Page: page, Limit: limit})
}

// GetMember godoc
// @Summary Member detail
// @Tags members
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "User ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/members/{id} [get]
func (c *MemberController) GetMember(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	member, err := c.MemberService.GetMemberInChurch(util.MustParseUint(ctx.Param("id")), user.ChurchID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, member)
}

// UpdateProfile godoc
// @Summary Update my profile
// @Tags members
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProfileUpdate true "Profile fields"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [put]
func (c *MemberController) UpdateProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.MemberService.UpdateProfile(user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, updated)
}

// UploadAvatar godoc
// @Summary Upload my avatar
// @Tags members
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "Image file"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "Not an image"
// @Router /api/profile/avatar [post]
func (c *MemberController) UploadAvatar(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{"image/jpeg", "image/png", "image/webp"})
	if err != nil {
		util.BadRequest(ctx, "avatar must be a jpeg, png or webp image")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	filename := "avatars/" + uuid.NewString() + filepath.Ext(header.Filename)
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, header.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.MemberService.UpdateAvatar(user.UserID, url); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

// swagger:model SetDisabledRequest
type SetDisabledRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// SetDisabled godoc
// @Summary Disable or re-enable a member account
// @Tags members
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int                true "User ID"
// @Param   body body SetDisabledRequest true "Disabled flag"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/members/{id}/disabled [put]
func (c *MemberController) SetDisabled(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SetDisabledRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.MemberService.SetDisabled(util.MustParseUint(ctx.Param("id")), user.ChurchID, *req.Disabled); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
