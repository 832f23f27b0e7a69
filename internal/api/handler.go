// Package api is an in-memory stand-in for the reservation service. It speaks
// the same REST dialect (paths, JSON shapes, error payloads, JWT bearer auth)
// and backs the integration tests and cmd/mockapi.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"roombook-client/internal/model"
)

const userKey = "user"

// Call is one request received by the handler.
type Call struct {
	Method    string
	Path      string
	Query     string
	Bearer    bool
	RequestID string
}

type fault struct {
	method  string
	path    string
	status  int
	message string
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	backend *Backend
	tokens  *TokenIssuer

	// IdentityInAuth adds id and email to auth responses. The real service
	// only returns token, username and role.
	IdentityInAuth bool

	mu     sync.Mutex
	calls  []Call
	faults []fault
}

// NewHandler creates a new API handler.
func NewHandler(backend *Backend, tokens *TokenIssuer) *Handler {
	return &Handler{
		backend: backend,
		tokens:  tokens,
	}
}

// Backend returns the state served by h.
func (h *Handler) Backend() *Backend {
	return h.backend
}

// Calls returns the requests received so far.
func (h *Handler) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Call(nil), h.calls...)
}

// ResetCalls forgets the recorded requests.
func (h *Handler) ResetCalls() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
}

// Fail makes the next request matching method and path (relative to /api)
// answer with status and an error payload carrying message.
func (h *Handler) Fail(method, path string, status int, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.faults = append(h.faults, fault{method: method, path: path, status: status, message: message})
}

func (h *Handler) record(c *gin.Context) {
	path := strings.TrimPrefix(c.Request.URL.Path, apiPrefix)
	call := Call{
		Method:    c.Request.Method,
		Path:      path,
		Query:     c.Request.URL.RawQuery,
		Bearer:    strings.HasPrefix(c.GetHeader("Authorization"), "Bearer "),
		RequestID: c.GetHeader("X-Request-ID"),
	}

	h.mu.Lock()
	h.calls = append(h.calls, call)
	var injected *fault
	for i, f := range h.faults {
		if f.method == call.Method && f.path == path {
			injected = &h.faults[i]
			h.faults = append(h.faults[:i:i], h.faults[i+1:]...)
			break
		}
	}
	h.mu.Unlock()

	if injected != nil {
		c.AbortWithStatusJSON(injected.status, errorBody(injected.status, injected.message, nil))
		return
	}
	c.Next()
}

// apiError mirrors the error payload of the reservation service.
type apiError struct {
	Status    int      `json:"status"`
	Message   string   `json:"message"`
	Timestamp string   `json:"timestamp"`
	Details   []string `json:"details"`
}

func errorBody(status int, message string, details []string) apiError {
	if details == nil {
		details = []string{}
	}
	return apiError{
		Status:    status,
		Message:   message,
		Timestamp: formatLocal(time.Now()),
		Details:   details,
	}
}

// fail maps err to the status the service would answer with.
func fail(c *gin.Context, err error) {
	var be businessError
	switch {
	case errors.As(err, &be):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "Business error", []string{be.Error()}))
	case errors.Is(err, errForbidden):
		forbidden(c)
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(http.StatusInternalServerError, "Internal error", []string{err.Error()}))
	}
}

func forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: missing or invalid token"})
}

func invalid(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "Validation error", []string{"malformed request body"}))
		return
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, lowerFirst(fe.Field())+": "+fieldMessage(fe))
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "Validation error", details))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be blank"
	case "email":
		return "must be a well-formed email address"
	case "min":
		return "must be greater than or equal to " + fe.Param()
	}
	return "is invalid"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// RequireAuth resolves the bearer token to a user.
func (h *Handler) RequireAuth(c *gin.Context) {
	raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || raw == "" {
		unauthorized(c)
		return
	}
	username, err := h.tokens.Subject(raw)
	if err != nil {
		unauthorized(c)
		return
	}
	user, found := h.backend.userByName(username)
	if !found {
		unauthorized(c)
		return
	}
	c.Set(userKey, user)
	c.Next()
}

// RequireAdmin rejects non-admin callers with 403.
func (h *Handler) RequireAdmin(c *gin.Context) {
	if currentUser(c).Role != model.RoleAdmin {
		forbidden(c)
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) model.User {
	u, _ := c.Get(userKey)
	user, _ := u.(model.User)
	return user
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "Validation error", []string{"id: must be a positive number"}))
		return 0, false
	}
	return id, true
}
