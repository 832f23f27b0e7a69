// Package reminder polls the logged in user's reservations and raises a
// notification shortly before each one starts.
package reminder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"roombook-client/config"
	"roombook-client/internal/model"
	"roombook-client/internal/notification"
	"roombook-client/internal/parse"
)

// ReservationLister fetches the caller's reservations.
type ReservationLister interface {
	ListMine(ctx context.Context) ([]model.Reservation, error)
}

// UserSource exposes the logged in user.
type UserSource interface {
	User() *model.User
}

// Service watches for reservations that are about to start.
type Service struct {
	cfg          config.ReminderConfig
	reservations ReservationLister
	session      UserSource
	notify       notification.Notifier
	loc          *time.Location
	now          func() time.Time

	mu   sync.Mutex
	sent map[int64]struct{}
}

// NewService creates a reminder service. Reservations are read in loc.
func NewService(cfg config.ReminderConfig, reservations ReservationLister, session UserSource, notify notification.Notifier, loc *time.Location) *Service {
	if notify == nil {
		notify = notification.Discard
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		cfg:          cfg,
		reservations: reservations,
		session:      session,
		notify:       notify,
		loc:          loc,
		now:          time.Now,
		sent:         make(map[int64]struct{}),
	}
}

// Run checks once immediately and then on every interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		log.Println("Reminders are disabled. Not starting.")
		return
	}
	log.Println("Starting reminder service...")

	s.CheckOnce(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder service shutting down.")
			return
		case <-timer.C:
			s.CheckOnce(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

// CheckOnce notifies about every active reservation starting within the lead
// time that has not been announced yet. It returns how many were announced.
func (s *Service) CheckOnce(ctx context.Context) int {
	if s.session.User() == nil {
		return 0
	}

	items, err := s.reservations.ListMine(ctx)
	if err != nil {
		log.Printf("Error fetching reservations for reminders: %v", err)
		return 0
	}

	now := s.now()
	announced := 0
	for _, r := range items {
		if !r.IsActive() {
			continue
		}
		start, err := parse.Timestamp(r.StartTime, s.loc)
		if err != nil {
			log.Printf("Warning: could not parse startTime for reservation %d: %v", r.ID, err)
			continue
		}
		until := start.Sub(now)
		if until < 0 || until > s.cfg.Lead {
			continue
		}
		if !s.markSent(r.ID) {
			continue
		}
		s.notify.Notify(notification.Info("Upcoming reservation", describe(r, start, s.loc)))
		announced++
	}
	return announced
}

// Forget drops the announced set, e.g. after logout.
func (s *Service) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = make(map[int64]struct{})
}

func (s *Service) markSent(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sent[id]; ok {
		return false
	}
	s.sent[id] = struct{}{}
	return true
}

func describe(r model.Reservation, start time.Time, loc *time.Location) string {
	name := r.Room.Name
	if name == "" {
		name = fmt.Sprintf("room %d", r.Room.ID)
	}
	return fmt.Sprintf("%s at %s", name, start.In(loc).Format("15:04"))
}
