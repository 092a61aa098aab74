package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/notify"
	"github.com/gravadigital/guestlist-api/internal/response"
	"github.com/gravadigital/guestlist-api/internal/rsvp"
	"github.com/gravadigital/guestlist-api/internal/validation"
)

type EventHandler struct {
	svc     *rsvp.Service
	channel notify.Target
	group   notify.Target
}

// NewEventHandler wires the event endpoints to the RSVP service. The channel
// and group targets are where announcements land when a request does not name
// its own.
func NewEventHandler(svc *rsvp.Service, channel, group notify.Target) *EventHandler {
	return &EventHandler{
		svc:     svc,
		channel: channel,
		group:   group,
	}
}

type CreateEventRequest struct {
	Name         string `json:"name" binding:"required"`
	Capacity     *int   `json:"capacity"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Location     string `json:"location"`
	LocationLink string `json:"location_link"`
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	var v validation.EventValidation
	if err := v.ValidateEventName(req.Name); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	if err := v.ValidateLocation(req.Location); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	capacity := event.Unbounded()
	if req.Capacity != nil {
		var err error
		capacity, err = event.Limited(*req.Capacity)
		if err != nil {
			response.BadRequestError(c, err.Error())
			return
		}
	}

	newEvent := event.New(req.Name, capacity)

	if req.Date != "" {
		if err := validation.ValidateDate(req.Date, "date"); err != nil {
			response.BadRequestError(c, err.Error())
			return
		}
		date, _ := time.Parse("2006-01-02", req.Date)
		newEvent.Date = &date
	}
	if req.StartTime != "" {
		if err := validation.ValidateClock(req.StartTime, "start_time"); err != nil {
			response.BadRequestError(c, err.Error())
			return
		}
		newEvent.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		if err := validation.ValidateClock(req.EndTime, "end_time"); err != nil {
			response.BadRequestError(c, err.Error())
			return
		}
		newEvent.EndTime = req.EndTime
	}
	newEvent.Location = req.Location
	newEvent.LocationLink = req.LocationLink

	if err := h.svc.CreateEvent(c.Request.Context(), newEvent); err != nil {
		response.DomainError(c, err)
		return
	}

	view := newEventView(newEvent)
	response.SuccessResponse(c, http.StatusCreated, "Event created", view)
}

// GetAllEvents handles GET /api/events
func (h *EventHandler) GetAllEvents(c *gin.Context) {
	events := h.svc.List()

	views := make([]eventView, 0, len(events))
	for _, ev := range events {
		views = append(views, newEventView(ev))
	}

	c.JSON(http.StatusOK, gin.H{
		"events": views,
		"count":  len(views),
	})
}

// GetEvent handles GET /api/events/{event_id}
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	ev, err := h.svc.Roster(eventID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEventView(ev))
}

type UpdateEventRequest struct {
	Name         *string `json:"name"`
	Date         *string `json:"date"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	Location     *string `json:"location"`
	LocationLink *string `json:"location_link"`
}

// UpdateEvent handles PATCH /api/events/{event_id}. Absent fields keep
// their value; empty strings clear the optional schedule and location
// fields.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	var v validation.EventValidation
	update := rsvp.EventUpdate{
		Name:         req.Name,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
		LocationLink: req.LocationLink,
	}

	if req.Name != nil {
		if err := v.ValidateEventName(*req.Name); err != nil {
			response.BadRequestError(c, err.Error())
			return
		}
	}
	if req.Date != nil {
		if *req.Date == "" {
			update.ClearDate = true
		} else {
			if err := validation.ValidateDate(*req.Date, "date"); err != nil {
				response.BadRequestError(c, err.Error())
				return
			}
			date, _ := time.Parse("2006-01-02", *req.Date)
			update.Date = &date
		}
	}
	if req.StartTime != nil && *req.StartTime != "" {
		if err := validation.ValidateClock(*req.StartTime, "start_time"); err != nil {
			response.BadRequestError(c, err.Error())
			return
		}
	}
	if req.EndTime != nil && *req.EndTime != "" {
		if err := validation.ValidateClock(*req.EndTime, "end_time"); err != nil {
			response.BadRequestError(c, err.Error())
			return
		}
	}
	if req.Location != nil {
		if err := v.ValidateLocation(*req.Location); err != nil {
			response.BadRequestError(c, err.Error())
			return
		}
	}

	res, err := h.svc.UpdateEvent(c.Request.Context(), eventID, update)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newResultView(res))
}

type UpdateCapacityRequest struct {
	Capacity event.Capacity `json:"capacity"`
}

// UpdateCapacity handles PATCH /api/events/{event_id}/capacity
func (h *EventHandler) UpdateCapacity(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req UpdateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}
	if limit, finite := req.Capacity.Limit(); finite && limit == 0 {
		response.BadRequestError(c, "capacity is required")
		return
	}

	res, err := h.svc.ChangeCapacity(c.Request.Context(), eventID, req.Capacity)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newResultView(res))
}

// CloseEvent handles POST /api/events/{event_id}/close
func (h *EventHandler) CloseEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	res, err := h.svc.CloseEvent(c.Request.Context(), eventID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newResultView(res))
}

// ReopenEvent handles POST /api/events/{event_id}/reopen
func (h *EventHandler) ReopenEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	res, err := h.svc.ReopenEvent(c.Request.Context(), eventID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newResultView(res))
}

type AnnounceRequest struct {
	Channel string `json:"channel"`
	Group   string `json:"group"`
}

// Announce handles POST /api/events/{event_id}/announce
func (h *EventHandler) Announce(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	// Body is optional; absent fields fall back to the configured targets.
	var req AnnounceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequestError(c, "Invalid request payload: "+err.Error())
			return
		}
	}

	channel := h.channel
	if req.Channel != "" {
		channel = notify.ChannelTarget(req.Channel)
	}
	group := h.group
	if req.Group != "" {
		group = notify.ChannelTarget(req.Group)
	}

	res, err := h.svc.Announce(c.Request.Context(), eventID, channel, group)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newResultView(res))
}

type MessageRequest struct {
	Audience string `json:"audience"`
	Text     string `json:"text" binding:"required"`
}

// Message handles POST /api/events/{event_id}/message. The audience picks
// who receives it: attendees, waitlist, or all (the default).
func (h *EventHandler) Message(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	audience := rsvp.Audience(req.Audience)
	if req.Audience == "" {
		audience = rsvp.AudienceAll
	}

	res, err := h.svc.Message(c.Request.Context(), eventID, audience, req.Text)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newResultView(res))
}

// eventIDParam parses the event_id path parameter, replying 400 on failure.
func eventIDParam(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("event_id")
	if err := validation.ValidateUUID(raw, "event_id"); err != nil {
		response.BadRequestError(c, err.Error())
		return uuid.Nil, false
	}
	id, _ := uuid.Parse(raw)
	return id, true
}
