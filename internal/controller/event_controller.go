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

type EventController struct {
	EventService *service.EventService
}

func NewEventController(eventService *service.EventService) *EventController {
	return &EventController{EventService: eventService}
}

// ListUpcoming godoc
// @Summary Upcoming events
// @Tags events
// @Produce  json
// @Security BearerAuth
// @Param   page  query int false "Page"  default(1)
// @Param   limit query int false "Limit" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/events [get]
func (c *EventController) ListUpcoming(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	events, total, err := c.EventService.ListUpcoming(user.ChurchID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: events, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Event detail
// @Tags events
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Event ID"
// @Success 200 {object} util.Response{data=model.Event}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/events/{id} [get]
func (c *EventController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	event, err := c.EventService.Get(util.MustParseUint(ctx.Param("id")), user.ChurchID)
	if err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, event)
}

// swagger:model RSVPRequest
type RSVPRequest struct {
	Status string `json:"status" binding:"required,oneof=going maybe declined"`
}

// RSVP godoc
// @Summary RSVP to an event
// @Description Upserts the caller's response; capacity only limits "going"
// @Tags events
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int         true "Event ID"
// @Param   body body RSVPRequest true "Response"
// @Success 200 {object} util.Response{data=model.EventRSVP}
// @Failure 404 {object} util.Response "Not found"
// @Failure 409 {object} util.Response "Event is full"
// @Router /api/events/{id}/rsvp [post]
func (c *EventController) RSVP(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RSVPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rsvp, err := c.EventService.RSVP(util.MustParseUint(ctx.Param("id")), user.UserID, user.ChurchID, model.RSVPStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEventNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEventFull):
			util.Error(ctx, 409, "event is full")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, rsvp)
}

// Attendees godoc
// @Summary Members going to an event
// @Tags events
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Event ID"
// @Success 200 {object} util.Response{data=[]model.User}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/events/{id}/attendees [get]
func (c *EventController) Attendees(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attendees, err := c.EventService.Attendees(util.MustParseUint(ctx.Param("id")), user.ChurchID)
	if err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attendees)
}

// swagger:model EventRequest
type EventRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt"`
	Capacity    int       `json:"capacity"`
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body EventRequest true "Event"
// @Success 201 {object} util.Response{data=model.Event}
// @Router /api/admin/events [post]
func (c *EventController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event := &model.Event{
		ChurchID:    user.ChurchID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
	}
	if err := c.EventService.Create(event); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, event)
}

// Update godoc
// @Summary Update an event
// @Tags events
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int          true "Event ID"
// @Param   body body EventRequest true "Changes"
// @Success 200 {object} util.Response{data=model.Event}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/events/{id} [put]
func (c *EventController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.EventService.Get(util.MustParseUint(ctx.Param("id")), user.ChurchID)
	if err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	event.Name = req.Name
	event.Description = req.Description
	event.Location = req.Location
	event.StartsAt = req.StartsAt
	event.EndsAt = req.EndsAt
	event.Capacity = req.Capacity
	if err := c.EventService.Update(event); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, event)
}

// Delete godoc
// @Summary Delete an event
// @Tags events
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Event ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/events/{id} [delete]
func (c *EventController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.EventService.Delete(util.MustParseUint(ctx.Param("id")), user.ChurchID); err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
