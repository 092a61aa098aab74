package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/guestlist-api/internal/response"
	"github.com/gravadigital/guestlist-api/internal/rsvp"
	"github.com/gravadigital/guestlist-api/internal/validation"
)

type RSVPHandler struct {
	svc *rsvp.Service
}

func NewRSVPHandler(svc *rsvp.Service) *RSVPHandler {
	return &RSVPHandler{svc: svc}
}

type RegisterRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

// Register handles POST /api/events/{event_id}/rsvp
func (h *RSVPHandler) Register(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}
	if err := validation.ValidateUUID(req.UserID, "user_id"); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	var v validation.RegistrationValidation
	if err := v.ValidateDisplayName(req.DisplayName); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	userID, _ := uuid.Parse(req.UserID)

	res, err := h.svc.Register(c.Request.Context(), eventID, userID, req.DisplayName)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	view := newResultView(res)
	view.Status = res.Status.String()
	view.AlreadyRegistered = res.AlreadyRegistered

	status := http.StatusCreated
	if res.AlreadyRegistered {
		status = http.StatusOK
	}
	c.JSON(status, view)
}

// Cancel handles DELETE /api/events/{event_id}/rsvp/{user_id}
func (h *RSVPHandler) Cancel(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	rawUser := c.Param("user_id")
	if err := validation.ValidateUUID(rawUser, "user_id"); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	userID, _ := uuid.Parse(rawUser)

	res, err := h.svc.ConfirmCancel(c.Request.Context(), eventID, userID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	view := newResultView(res)
	view.Status = res.Status.String()
	c.JSON(http.StatusOK, view)
}
