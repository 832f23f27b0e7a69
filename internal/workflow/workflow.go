// Package workflow drives the screens of the reservation client: booking a
// room, managing the reservation list, the admin room catalog and the user
// directory. Each workflow keeps its own state behind a mutex and never holds
// the lock across a backend call.
package workflow

import (
	"errors"

	"roombook-client/internal/model"
)

// Screen paths the workflows navigate to.
const (
	DashboardPath    = "/dashboard"
	ReservationsPath = "/dashboard/reservations"
	RoomsPath        = "/dashboard/rooms"
)

var (
	// ErrNoRoomSelected is returned when a reservation is submitted without a room.
	ErrNoRoomSelected = errors.New("a room must be selected")
	// ErrRoomUnavailable is returned when selecting a room outside the latest availability result.
	ErrRoomUnavailable = errors.New("room is not available for the selected time")
	// ErrUnknownRoom is returned when selecting a room that is not listed.
	ErrUnknownRoom = errors.New("room not found")
	// ErrUnknownReservation is returned when cancelling a reservation that is not listed.
	ErrUnknownReservation = errors.New("reservation not found")
	// ErrNotCancellable is returned when cancelling a reservation that is no longer active.
	ErrNotCancellable = errors.New("only active reservations can be cancelled")
	// ErrCancelled is returned when the user declines a confirmation prompt.
	ErrCancelled = errors.New("action cancelled")
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("a submission is already in progress")
)

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm accepts every prompt.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })

// UserSource exposes the logged in user.
type UserSource interface {
	User() *model.User
}

type nowhere struct{}

func (nowhere) Navigate(string) {}
