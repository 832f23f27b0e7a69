// Package app wires configuration, persistence, the backend gateway, the
// session and the workflows into one client.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"roombook-client/config"
	"roombook-client/internal/db"
	"roombook-client/internal/gateway"
	"roombook-client/internal/notification"
	"roombook-client/internal/reminder"
	"roombook-client/internal/service"
	"roombook-client/internal/session"
	"roombook-client/internal/store"
	"roombook-client/internal/workflow"
)

// App is a fully wired reservation client.
type App struct {
	Config        *config.Config
	DB            *gorm.DB
	Gateway       *gateway.Client
	Session       *session.Store
	Notifications *notification.Center
	Push          *notification.WorkerPool
	Rooms         *service.RoomService
	Reservations  *service.ReservationService
	Users         *service.UserService
	Reminders     *reminder.Service
	Location      *time.Location
}

// New opens the configured database and wires the client on top of it.
func New(cfg *config.Config) (*App, error) {
	gormDB, err := db.Init(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return NewWithDB(cfg, gormDB)
}

// NewWithDB wires the client on an already migrated database.
func NewWithDB(cfg *config.Config, gormDB *gorm.DB) (*App, error) {
	loc, err := cfg.API.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid api.timezone %q: %w", cfg.API.Timezone, err)
	}

	var codec store.Codec
	if cfg.Storage.HashKey != "" {
		codec, err = store.NewSecureCodec([]byte(cfg.Storage.HashKey), []byte(cfg.Storage.BlockKey))
		if err != nil {
			return nil, fmt.Errorf("failed to build session codec: %w", err)
		}
	}
	authStore := store.NewGormStore(gormDB, cfg.Storage.RecordName, codec)

	a := &App{Config: cfg, DB: gormDB, Location: loc}

	var push notification.Dispatcher
	if cfg.Push.Enabled {
		a.Push = notification.NewWorkerPool(cfg.WorkerPool.Size, subscriptions(cfg.Push.Subscriptions), &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		})
		push = a.Push
	}
	a.Notifications = notification.NewCenter(cfg.Notifications.TTL, push)

	// The gateway reads the token from the session, which logs in through
	// the gateway.
	a.Gateway = gateway.New(cfg.API, gateway.TokenFunc(func() string { return a.Session.Token() }))
	a.Session = session.NewStore(service.NewAuthService(a.Gateway), authStore, a.Notifications)

	a.Rooms = service.NewRoomService(a.Gateway)
	a.Reservations = service.NewReservationService(a.Gateway)
	a.Users = service.NewUserService(a.Gateway)
	a.Reminders = reminder.NewService(cfg.Reminders, a.Reservations, a.Session, a.Notifications, loc)
	return a, nil
}

// Start launches the push workers and restores the persisted session.
func (a *App) Start(ctx context.Context) session.State {
	if a.Push != nil {
		a.Push.Start(ctx)
	}
	st := a.Session.Restore(ctx)
	if st.IsAuthenticated {
		log.Printf("restored session for %s", st.User.Username)
	}
	return st
}

// Logout ends the session and forgets announced reminders.
func (a *App) Logout() {
	a.Session.Logout()
	a.Reminders.Forget()
}

// Close stops the push workers and closes the database.
func (a *App) Close() error {
	if a.Push != nil {
		a.Push.Shutdown()
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// BookingForm returns a new reservation form.
func (a *App) BookingForm(nav workflow.Navigator) *workflow.BookingForm {
	return workflow.NewBookingForm(a.Rooms, a.Reservations, a.Notifications, nav, a.Location)
}

// ReservationList returns the reservation list screen.
func (a *App) ReservationList(confirm workflow.Confirmer) *workflow.ReservationList {
	return workflow.NewReservationList(a.Reservations, a.Session, confirm, a.Notifications)
}

// RoomCatalog returns the room management screen.
func (a *App) RoomCatalog(confirm workflow.Confirmer, nav workflow.Navigator) *workflow.RoomCatalog {
	return workflow.NewRoomCatalog(a.Rooms, a.Session, confirm, a.Notifications, nav)
}

// UserDirectory returns the user list screen.
func (a *App) UserDirectory() *workflow.UserDirectory {
	return workflow.NewUserDirectory(a.Users, a.Session, a.Notifications)
}

// Dashboard returns the dashboard counters.
func (a *App) Dashboard() *workflow.Dashboard {
	return workflow.NewDashboard(a.Rooms, a.Reservations, a.Session)
}

func subscriptions(in []config.PushSubscription) []webpush.Subscription {
	out := make([]webpush.Subscription, 0, len(in))
	for _, s := range in {
		out = append(out, webpush.Subscription{
			Endpoint: s.Endpoint,
			Keys:     webpush.Keys{P256dh: s.P256DH, Auth: s.Auth},
		})
	}
	return out
}
