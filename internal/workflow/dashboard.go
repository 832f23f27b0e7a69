package workflow

import (
	"context"
	"fmt"
	"sync"

	"roombook-client/internal/access"
	"roombook-client/internal/model"
)

// Stats are the counters shown on the dashboard.
type Stats struct {
	TotalRooms        int
	TotalReservations int
	MyReservations    int
}

// RoomLister lists rooms.
type RoomLister interface {
	List(ctx context.Context) ([]model.Room, error)
}

// Dashboard computes the landing page counters.
type Dashboard struct {
	rooms        RoomLister
	reservations ReservationAPI
	session      UserSource
}

// NewDashboard creates the dashboard.
func NewDashboard(rooms RoomLister, reservations ReservationAPI, session UserSource) *Dashboard {
	return &Dashboard{rooms: rooms, reservations: reservations, session: session}
}

// Stats fetches rooms and reservations concurrently.
func (d *Dashboard) Stats(ctx context.Context) (Stats, error) {
	user := d.session.User()
	if err := access.Require(user, access.ViewRooms); err != nil {
		return Stats{}, err
	}

	var (
		wg           sync.WaitGroup
		rooms        []model.Room
		reservations []model.Reservation
		roomsErr     error
		resErr       error
	)
	all := access.Has(user, access.ViewAllReservations)
	wg.Add(2)
	go func() {
		defer wg.Done()
		rooms, roomsErr = d.rooms.List(ctx)
	}()
	go func() {
		defer wg.Done()
		if all {
			reservations, resErr = d.reservations.ListAll(ctx)
		} else {
			reservations, resErr = d.reservations.ListMine(ctx)
		}
	}()
	wg.Wait()

	if roomsErr != nil {
		return Stats{}, fmt.Errorf("failed to load rooms: %w", roomsErr)
	}
	if resErr != nil {
		return Stats{}, fmt.Errorf("failed to load reservations: %w", resErr)
	}

	s := Stats{TotalRooms: len(rooms), TotalReservations: len(reservations)}
	if !all {
		s.MyReservations = len(reservations)
		return s, nil
	}
	for _, r := range reservations {
		if ownedBy(r, user) {
			s.MyReservations++
		}
	}
	return s, nil
}

// ownedBy matches on the user name the backend always sends. The session id
// may be a placeholder when the auth response carried none.
func ownedBy(r model.Reservation, user *model.User) bool {
	if r.UserName != "" {
		return r.UserName == user.Username
	}
	return r.UserID == user.ID
}
