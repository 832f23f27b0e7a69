package workflow

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"roombook-client/internal/model"
	"roombook-client/internal/notification"
	"roombook-client/internal/parse"
	"roombook-client/internal/validation"
)

// BookingRooms is the room lookup used by the booking form.
type BookingRooms interface {
	List(ctx context.Context) ([]model.Room, error)
	GetAvailable(ctx context.Context, startTime, endTime string) ([]model.Room, error)
}

// ReservationCreator creates reservations.
type ReservationCreator interface {
	Create(ctx context.Context, in model.CreateReservationInput) (model.Reservation, error)
}

// RoomOption is a room offered by the booking form.
type RoomOption struct {
	Room       model.Room
	Selectable bool
}

// BookingForm is the new reservation screen.
type BookingForm struct {
	rooms        BookingRooms
	reservations ReservationCreator
	notify       notification.Notifier
	nav          Navigator
	loc          *time.Location
	now          func() time.Time

	mu         sync.Mutex
	all        []model.Room
	available  map[int64]bool
	input      model.CreateReservationInput
	submitting bool
}

// NewBookingForm creates a booking form. Times are interpreted in loc.
func NewBookingForm(rooms BookingRooms, reservations ReservationCreator, notify notification.Notifier, nav Navigator, loc *time.Location) *BookingForm {
	if notify == nil {
		notify = notification.Discard
	}
	if nav == nil {
		nav = nowhere{}
	}
	if loc == nil {
		loc = time.Local
	}
	f := &BookingForm{
		rooms:        rooms,
		reservations: reservations,
		notify:       notify,
		nav:          nav,
		loc:          loc,
		now:          time.Now,
	}
	f.input.StartTime, f.input.EndTime = parse.DefaultWindow(f.now(), loc)
	return f
}

// Load fetches the room list and resets the form to tomorrow 09:00-10:00.
func (f *BookingForm) Load(ctx context.Context) error {
	start, end := parse.DefaultWindow(f.now(), f.loc)
	f.mu.Lock()
	f.input = model.CreateReservationInput{StartTime: start, EndTime: end}
	f.available = nil
	f.mu.Unlock()

	rooms, err := f.rooms.List(ctx)
	if err != nil {
		log.Printf("Error fetching rooms: %v", err)
		return fmt.Errorf("failed to load rooms: %w", err)
	}

	f.mu.Lock()
	f.all = rooms
	f.mu.Unlock()
	return nil
}

// SetStartTime updates the start and refreshes availability.
func (f *BookingForm) SetStartTime(ctx context.Context, v string) {
	f.mu.Lock()
	f.input.StartTime = v
	f.mu.Unlock()
	f.refreshAvailability(ctx)
}

// SetEndTime updates the end and refreshes availability.
func (f *BookingForm) SetEndTime(ctx context.Context, v string) {
	f.mu.Lock()
	f.input.EndTime = v
	f.mu.Unlock()
	f.refreshAvailability(ctx)
}

// SetPurpose updates the optional purpose.
func (f *BookingForm) SetPurpose(v string) {
	f.mu.Lock()
	f.input.Purpose = v
	f.mu.Unlock()
}

// Values returns the current form values.
func (f *BookingForm) Values() model.CreateReservationInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Candidates lists every room. Before an availability result arrives all of
// them are selectable; afterwards only the rooms in the latest result are.
func (f *BookingForm) Candidates() []RoomOption {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RoomOption, 0, len(f.all))
	for _, r := range f.all {
		out = append(out, RoomOption{Room: r, Selectable: f.selectableLocked(r.ID)})
	}
	return out
}

// SelectRoom chooses the room to book.
func (f *BookingForm) SelectRoom(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.findLocked(id); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRoom, id)
	}
	if !f.selectableLocked(id) {
		return fmt.Errorf("%w: %d", ErrRoomUnavailable, id)
	}
	f.input.RoomID = id
	return nil
}

// Selected returns the chosen room, or nil.
func (f *BookingForm) Selected() *model.Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.input.RoomID == 0 {
		return nil
	}
	r, ok := f.findLocked(f.input.RoomID)
	if !ok {
		return nil
	}
	return &r
}

// CanSubmit reports whether the submit action is enabled.
func (f *BookingForm) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.RoomID != 0 && !f.submitting
}

// Validate checks the form without contacting the backend.
func (f *BookingForm) Validate() error {
	return validation.ReservationIn(f.Values(), f.loc)
}

// Submit validates and creates the reservation. On success the user is taken
// to the reservation list.
func (f *BookingForm) Submit(ctx context.Context) (model.Reservation, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return model.Reservation{}, ErrBusy
	}
	in := f.input
	if in.RoomID == 0 {
		f.mu.Unlock()
		return model.Reservation{}, ErrNoRoomSelected
	}
	if err := validation.ReservationIn(in, f.loc); err != nil {
		f.mu.Unlock()
		return model.Reservation{}, err
	}
	f.submitting = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	res, err := f.reservations.Create(ctx, in)
	if err != nil {
		log.Printf("Error creating reservation: %v", err)
		f.notify.Notify(notification.Failure("Failed to create reservation",
			"An error occurred while processing the reservation. Please try again."))
		return model.Reservation{}, fmt.Errorf("failed to create reservation: %w", err)
	}

	f.notify.Notify(notification.Success("Reservation created", "The reservation has been registered."))
	f.nav.Navigate(ReservationsPath)
	return res, nil
}

func (f *BookingForm) refreshAvailability(ctx context.Context) {
	f.mu.Lock()
	start, end := f.input.StartTime, f.input.EndTime
	f.mu.Unlock()
	if start == "" || end == "" {
		return
	}

	rooms, err := f.rooms.GetAvailable(ctx, start, end)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		log.Printf("Error fetching available rooms: %v", err)
		f.available = nil
		return
	}

	f.available = make(map[int64]bool, len(rooms))
	for _, r := range rooms {
		f.available[r.ID] = true
	}
	if f.input.RoomID != 0 && !f.available[f.input.RoomID] {
		log.Printf("Room %d is not available between %s and %s; clearing selection", f.input.RoomID, start, end)
		f.input.RoomID = 0
	}
}

func (f *BookingForm) selectableLocked(id int64) bool {
	return f.available == nil || f.available[id]
}

func (f *BookingForm) findLocked(id int64) (model.Room, bool) {
	for _, r := range f.all {
		if r.ID == id {
			return r, true
		}
	}
	return model.Room{}, false
}
