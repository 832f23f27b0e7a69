package workflow

import (
	"context"
	"fmt"
	"log"
	"sync"

	"roombook-client/internal/access"
	"roombook-client/internal/model"
	"roombook-client/internal/notification"
)

// ReservationAPI is the reservation backend used by the list screen.
type ReservationAPI interface {
	ListAll(ctx context.Context) ([]model.Reservation, error)
	ListMine(ctx context.Context) ([]model.Reservation, error)
	Cancel(ctx context.Context, id int64) error
}

// ReservationList is the reservation list screen. Admins see every
// reservation, everyone else sees their own.
type ReservationList struct {
	api     ReservationAPI
	session UserSource
	confirm Confirmer
	notify  notification.Notifier

	mu    sync.Mutex
	items []model.Reservation
	err   string
}

// NewReservationList creates the list screen.
func NewReservationList(api ReservationAPI, session UserSource, confirm Confirmer, notify notification.Notifier) *ReservationList {
	if confirm == nil {
		confirm = AlwaysConfirm
	}
	if notify == nil {
		notify = notification.Discard
	}
	return &ReservationList{api: api, session: session, confirm: confirm, notify: notify}
}

// Load fetches the reservations visible to the current user.
func (l *ReservationList) Load(ctx context.Context) error {
	user := l.session.User()

	var (
		items []model.Reservation
		err   error
	)
	switch {
	case access.Has(user, access.ViewAllReservations):
		items, err = l.api.ListAll(ctx)
	case access.Has(user, access.ViewOwnReservations):
		items, err = l.api.ListMine(ctx)
	default:
		err = access.Require(user, access.ViewOwnReservations)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		log.Printf("Error fetching reservations: %v", err)
		l.err = "Failed to load reservations"
		return fmt.Errorf("failed to load reservations: %w", err)
	}
	l.items = items
	l.err = ""
	return nil
}

// Items returns the loaded reservations.
func (l *ReservationList) Items() []model.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Reservation(nil), l.items...)
}

// Err returns the message of the last failed load, or "".
func (l *ReservationList) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Cancel asks for confirmation and cancels an active reservation from the
// list. On success the list is fetched again.
func (l *ReservationList) Cancel(ctx context.Context, id int64) error {
	if err := access.Require(l.session.User(), access.CancelReservations); err != nil {
		return err
	}

	l.mu.Lock()
	var (
		found bool
		r     model.Reservation
	)
	for _, item := range l.items {
		if item.ID == id {
			found, r = true, item
			break
		}
	}
	l.mu.Unlock()

	if !found {
		return fmt.Errorf("%w: %d", ErrUnknownReservation, id)
	}
	if !r.IsActive() {
		return fmt.Errorf("%w: reservation %d is %s", ErrNotCancellable, id, r.Status)
	}
	if !l.confirm.Confirm("Are you sure you want to cancel this reservation?") {
		return ErrCancelled
	}

	if err := l.api.Cancel(ctx, id); err != nil {
		log.Printf("Error cancelling reservation %d: %v", id, err)
		l.notify.Notify(notification.Failure("Failed to cancel reservation",
			"An error occurred while cancelling the reservation. Please try again."))
		return fmt.Errorf("failed to cancel reservation %d: %w", id, err)
	}

	l.notify.Notify(notification.Success("Reservation cancelled", "The reservation has been cancelled."))
	return l.Load(ctx)
}
