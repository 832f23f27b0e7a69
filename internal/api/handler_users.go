package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUsers handles GET /users.
func (h *Handler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.backend.listUsers())
}

// GetUser handles GET /users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.backend.getUser(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
