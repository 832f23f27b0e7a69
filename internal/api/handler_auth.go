package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roombook-client/internal/model"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token    string     `json:"token"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	ID       int64      `json:"id,omitempty"`
	Email    string     `json:"email,omitempty"`
}

func (h *Handler) respondWithToken(c *gin.Context, user model.User) {
	token, err := h.tokens.Issue(user.Username)
	if err != nil {
		fail(c, err)
		return
	}
	resp := authResponse{Token: token, Username: user.Username, Role: user.Role}
	if h.IdentityInAuth {
		resp.ID = user.ID
		resp.Email = user.Email
	}
	c.JSON(http.StatusOK, resp)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	user, err := h.backend.authenticate(req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.respondWithToken(c, user)
}

// Register handles POST /auth/register. New accounts always get the USER role.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	user, err := h.backend.AddUser(req.Username, req.Email, req.Password, model.RoleUser)
	if err != nil {
		fail(c, err)
		return
	}
	h.respondWithToken(c, user)
}
