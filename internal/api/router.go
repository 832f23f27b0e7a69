package api

import (
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"roombook-client/internal/mw"
)

const apiPrefix = "/api"

// RouterOptions tunes the middleware in front of the handlers.
type RouterOptions struct {
	// RateLimitPerSec of zero disables rate limiting.
	RateLimitPerSec float64
	RateLimitBurst  int
	// CacheTTL of zero disables the GET response cache.
	CacheTTL time.Duration
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group(apiPrefix)
	api.Use(h.record)
	if opts.RateLimitPerSec > 0 {
		api.Use(mw.RateLimiter(mw.NewKeyedLimiter(rate.Limit(opts.RateLimitPerSec), opts.RateLimitBurst), mw.ClientKey))
	}
	{
		api.POST("/auth/login", h.Login)
		api.POST("/auth/register", h.Register)
	}

	secured := api.Group("", h.RequireAuth)
	if opts.CacheTTL > 0 {
		secured.Use(mw.ResponseCache(cache.New(opts.CacheTTL, 2*opts.CacheTTL), opts.CacheTTL))
	}
	admin := secured.Group("", h.RequireAdmin)
	{
		secured.GET("/rooms", h.ListRooms)
		secured.GET("/rooms/available", h.AvailableRooms)
		secured.GET("/rooms/:id", h.GetRoom)
		admin.POST("/rooms", h.CreateRoom)
		admin.PUT("/rooms/:id", h.UpdateRoom)
		admin.DELETE("/rooms/:id", h.DeleteRoom)

		secured.POST("/reservations", h.CreateReservation)
		secured.GET("/reservations", h.MyReservations)
		admin.GET("/reservations/all", h.AllReservations)
		secured.GET("/reservations/:id", h.GetReservation)
		secured.DELETE("/reservations/:id", h.CancelReservation)

		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
	}

	return r
}

// NewTestServer serves h on a loopback listener with no rate limit or cache.
// The caller closes the returned server.
func NewTestServer(h *Handler) *httptest.Server {
	gin.SetMode(gin.TestMode)
	return httptest.NewServer(NewRouter(h, RouterOptions{}))
}
