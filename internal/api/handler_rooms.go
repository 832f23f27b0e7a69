package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roombook-client/internal/model"
)

type roomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Capacity    *int   `json:"capacity" binding:"required,min=1"`
	Location    string `json:"location"`
	Equipment   string `json:"equipment"`
}

func (r roomRequest) input() model.RoomInput {
	return model.RoomInput{
		Name:        r.Name,
		Description: r.Description,
		Capacity:    *r.Capacity,
		Location:    r.Location,
		Equipment:   r.Equipment,
	}
}

// ListRooms handles GET /rooms. Deleted rooms are hidden.
func (h *Handler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.backend.activeRooms())
}

// AvailableRooms handles GET /rooms/available?startTime=&endTime=.
func (h *Handler) AvailableRooms(c *gin.Context) {
	start, errStart := h.backend.parseLocal(c.Query("startTime"))
	end, errEnd := h.backend.parseLocal(c.Query("endTime"))
	if errStart != nil || errEnd != nil {
		var details []string
		if errStart != nil {
			details = append(details, "startTime: must be an ISO date-time")
		}
		if errEnd != nil {
			details = append(details, "endTime: must be an ISO date-time")
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "Validation error", details))
		return
	}
	c.JSON(http.StatusOK, h.backend.availableRooms(start, end))
}

// GetRoom handles GET /rooms/:id.
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	room, err := h.backend.getRoom(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// CreateRoom handles POST /rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.backend.AddRoom(req.input(), currentUser(c).Username))
}

// UpdateRoom handles PUT /rooms/:id.
func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	room, err := h.backend.updateRoom(id, req.input())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /rooms/:id.
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.backend.deleteRoom(id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
