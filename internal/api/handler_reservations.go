package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type reservationRequest struct {
	RoomID    *int64 `json:"roomId" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Purpose   string `json:"purpose"`
}

// CreateReservation handles POST /reservations.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	start, err := h.backend.parseLocal(req.StartTime)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "Validation error", []string{"startTime: must be an ISO date-time"}))
		return
	}
	end, err := h.backend.parseLocal(req.EndTime)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "Validation error", []string{"endTime: must be an ISO date-time"}))
		return
	}

	res, err := h.backend.createReservation(currentUser(c), *req.RoomID, start, end, req.Purpose)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// MyReservations handles GET /reservations.
func (h *Handler) MyReservations(c *gin.Context) {
	c.JSON(http.StatusOK, h.backend.listReservations(currentUser(c).ID))
}

// AllReservations handles GET /reservations/all.
func (h *Handler) AllReservations(c *gin.Context) {
	c.JSON(http.StatusOK, h.backend.listReservations(0))
}

// GetReservation handles GET /reservations/:id.
func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.backend.getReservation(currentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CancelReservation handles DELETE /reservations/:id.
func (h *Handler) CancelReservation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.backend.cancelReservation(currentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
