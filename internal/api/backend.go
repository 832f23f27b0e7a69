package api

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"roombook-client/internal/model"
)

// businessError is a rule violation reported to the caller as a 400, the
// way the real service does.
type businessError string

func (e businessError) Error() string { return string(e) }

const (
	errBadCredentials     businessError = "Bad credentials"
	errUserExists         businessError = "Username or email already registered"
	errRoomNotFound       businessError = "Room not found"
	errReservationMissing businessError = "Reservation not found"
	errUserNotFound       businessError = "User not found"
	errStartAfterEnd      businessError = "Start time must be before end time"
	errInPast             businessError = "Reservations cannot be created in the past"
	errOutsideHours       businessError = "Reservations must be within business hours (8:00 - 18:00)"
	errRoomBusy           businessError = "The room is not available for the requested time"
	errUserBusy           businessError = "You already have a reservation in this time slot"
	errAlreadyCancelled   businessError = "The reservation is already cancelled"
)

// errForbidden is reported as a 403.
var errForbidden = errors.New("access denied: insufficient permissions")

type account struct {
	user model.User
	hash []byte
}

type roomRecord struct {
	room      model.Room
	createdAt time.Time
}

type reservationRecord struct {
	id        int64
	roomID    int64
	userID    int64
	start     time.Time
	end       time.Time
	purpose   string
	status    model.ReservationStatus
	createdAt time.Time
}

// Backend is the in-memory state of the fake reservation service.
type Backend struct {
	mu  sync.Mutex
	now func() time.Time
	loc *time.Location

	users        []*account
	rooms        []*roomRecord
	reservations []*reservationRecord
	nextUser     int64
	nextRoom     int64
	nextRes      int64
}

// NewBackend creates an empty backend. Local date-times are read and written
// in loc.
func NewBackend(loc *time.Location) *Backend {
	if loc == nil {
		loc = time.Local
	}
	return &Backend{now: time.Now, loc: loc}
}

// SetClock replaces the clock used for "in the past" checks and timestamps.
func (b *Backend) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

// AddUser creates an account with a bcrypt-hashed password.
func (b *Backend) AddUser(username, email, password string, role model.Role) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return model.User{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.users {
		if strings.EqualFold(a.user.Username, username) || strings.EqualFold(a.user.Email, email) {
			return model.User{}, errUserExists
		}
	}
	b.nextUser++
	u := model.User{ID: b.nextUser, Username: username, Email: email, Role: role}
	b.users = append(b.users, &account{user: u, hash: hash})
	return u, nil
}

// AddRoom creates an active room owned by createdBy.
func (b *Backend) AddRoom(in model.RoomInput, createdBy string) model.Room {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addRoomLocked(in, createdBy)
}

func (b *Backend) addRoomLocked(in model.RoomInput, createdBy string) model.Room {
	b.nextRoom++
	now := b.now().In(b.loc)
	r := &roomRecord{
		room: model.Room{
			ID:          b.nextRoom,
			Name:        in.Name,
			Description: in.Description,
			Capacity:    in.Capacity,
			Location:    in.Location,
			Equipment:   in.Equipment,
			Active:      true,
			CreatedAt:   formatLocal(now),
			CreatedBy:   createdBy,
		},
		createdAt: now,
	}
	b.rooms = append(b.rooms, r)
	return r.room
}

// Seed loads the demo accounts and rooms.
func (b *Backend) Seed() error {
	admin, err := b.AddUser("admin", "admin@example.com", "admin123", model.RoleAdmin)
	if err != nil {
		return err
	}
	if _, err := b.AddUser("user", "user@example.com", "user123", model.RoleUser); err != nil {
		return err
	}
	for _, in := range []model.RoomInput{
		{Name: "Executive Room", Description: "Main room for executive meetings", Capacity: 12, Location: "Floor 10 - Head Office", Equipment: "4K projector, conference table, video conferencing"},
		{Name: "Innovation Room", Description: "Creative space for brainstorming", Capacity: 8, Location: "Floor 5 - Development Area", Equipment: "Digital whiteboard, 55\" TV"},
		{Name: "Training Room", Description: "Classroom for training sessions", Capacity: 20, Location: "Floor 3 - Training Center", Equipment: "Projector, audio system, 20 desks"},
		{Name: "Small Room", Description: "Cozy room for team meetings", Capacity: 4, Location: "Floor 7 - Management Area", Equipment: "42\" TV, round table"},
	} {
		b.AddRoom(in, admin.Username)
	}
	return nil
}

func (b *Backend) authenticate(username, password string) (model.User, error) {
	b.mu.Lock()
	a := b.findUserLocked(username)
	b.mu.Unlock()
	if a == nil {
		return model.User{}, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return model.User{}, errBadCredentials
	}
	return a.user, nil
}

func (b *Backend) userByName(username string) (model.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a := b.findUserLocked(username); a != nil {
		return a.user, true
	}
	return model.User{}, false
}

func (b *Backend) findUserLocked(username string) *account {
	for _, a := range b.users {
		if a.user.Username == username {
			return a
		}
	}
	return nil
}

func (b *Backend) listUsers() []model.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.User, 0, len(b.users))
	for _, a := range b.users {
		out = append(out, a.user)
	}
	return out
}

func (b *Backend) getUser(id int64) (model.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.users {
		if a.user.ID == id {
			return a.user, nil
		}
	}
	return model.User{}, errUserNotFound
}

func (b *Backend) activeRooms() []model.Room {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Room, 0, len(b.rooms))
	for _, r := range b.rooms {
		if r.room.Active {
			out = append(out, r.room)
		}
	}
	return out
}

func (b *Backend) getRoom(id int64) (model.Room, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.findRoomLocked(id)
	if r == nil {
		return model.Room{}, errRoomNotFound
	}
	return r.room, nil
}

func (b *Backend) findRoomLocked(id int64) *roomRecord {
	for _, r := range b.rooms {
		if r.room.ID == id {
			return r
		}
	}
	return nil
}

// availableRooms returns active rooms with no active reservation
// overlapping [start, end).
func (b *Backend) availableRooms(start, end time.Time) []model.Room {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []model.Room{}
	for _, r := range b.rooms {
		if r.room.Active && !b.roomBusyLocked(r.room.ID, start, end) {
			out = append(out, r.room)
		}
	}
	return out
}

func (b *Backend) roomBusyLocked(roomID int64, start, end time.Time) bool {
	for _, res := range b.reservations {
		if res.roomID == roomID && res.status == model.StatusActive && overlaps(res.start, res.end, start, end) {
			return true
		}
	}
	return false
}

func (b *Backend) userBusyLocked(userID int64, start, end time.Time) bool {
	for _, res := range b.reservations {
		if res.userID == userID && res.status == model.StatusActive && overlaps(res.start, res.end, start, end) {
			return true
		}
	}
	return false
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func (b *Backend) updateRoom(id int64, in model.RoomInput) (model.Room, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.findRoomLocked(id)
	if r == nil {
		return model.Room{}, errRoomNotFound
	}
	r.room.Name = in.Name
	r.room.Description = in.Description
	r.room.Capacity = in.Capacity
	r.room.Location = in.Location
	r.room.Equipment = in.Equipment
	return r.room, nil
}

// deleteRoom deactivates the room. Its reservations are kept.
func (b *Backend) deleteRoom(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.findRoomLocked(id)
	if r == nil {
		return errRoomNotFound
	}
	r.room.Active = false
	return nil
}

func (b *Backend) createReservation(user model.User, roomID int64, start, end time.Time, purpose string) (model.Reservation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.findRoomLocked(roomID) == nil {
		return model.Reservation{}, errRoomNotFound
	}
	if !start.Before(end) {
		return model.Reservation{}, errStartAfterEnd
	}
	now := b.now().In(b.loc)
	if start.Before(now) {
		return model.Reservation{}, errInPast
	}
	if start.Hour() < 8 || end.Hour() > 18 || (end.Hour() == 18 && end.Minute() > 0) {
		return model.Reservation{}, errOutsideHours
	}
	if b.roomBusyLocked(roomID, start, end) {
		return model.Reservation{}, errRoomBusy
	}
	if b.userBusyLocked(user.ID, start, end) {
		return model.Reservation{}, errUserBusy
	}

	b.nextRes++
	res := &reservationRecord{
		id:        b.nextRes,
		roomID:    roomID,
		userID:    user.ID,
		start:     start,
		end:       end,
		purpose:   purpose,
		status:    model.StatusActive,
		createdAt: now,
	}
	b.reservations = append(b.reservations, res)
	return b.viewLocked(res), nil
}

// listReservations returns reservations, latest start first. A zero userID lists
// everyone's.
func (b *Backend) listReservations(userID int64) []model.Reservation {
	b.mu.Lock()
	defer b.mu.Unlock()
	recs := make([]*reservationRecord, 0, len(b.reservations))
	for _, r := range b.reservations {
		if userID == 0 || r.userID == userID {
			recs = append(recs, r)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].start.After(recs[j].start) })

	out := make([]model.Reservation, 0, len(recs))
	for _, r := range recs {
		out = append(out, b.viewLocked(r))
	}
	return out
}

func (b *Backend) getReservation(user model.User, id int64) (model.Reservation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.findReservationLocked(id)
	if r == nil {
		return model.Reservation{}, errReservationMissing
	}
	if r.userID != user.ID && user.Role != model.RoleAdmin {
		return model.Reservation{}, errForbidden
	}
	return b.viewLocked(r), nil
}

func (b *Backend) cancelReservation(user model.User, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.findReservationLocked(id)
	if r == nil {
		return errReservationMissing
	}
	if r.userID != user.ID && user.Role != model.RoleAdmin {
		return errForbidden
	}
	if r.status == model.StatusCancelled {
		return errAlreadyCancelled
	}
	r.status = model.StatusCancelled
	return nil
}

func (b *Backend) findReservationLocked(id int64) *reservationRecord {
	for _, r := range b.reservations {
		if r.id == id {
			return r
		}
	}
	return nil
}

func (b *Backend) viewLocked(r *reservationRecord) model.Reservation {
	out := model.Reservation{
		ID:        r.id,
		StartTime: formatLocal(r.start),
		EndTime:   formatLocal(r.end),
		Purpose:   r.purpose,
		Status:    r.status,
		CreatedAt: formatLocal(r.createdAt),
		UserID:    r.userID,
	}
	if room := b.findRoomLocked(r.roomID); room != nil {
		out.Room = model.RoomSummary{
			ID:       room.room.ID,
			Name:     room.room.Name,
			Location: room.room.Location,
			Capacity: room.room.Capacity,
		}
	}
	for _, a := range b.users {
		if a.user.ID == r.userID {
			out.UserName = a.user.Username
			break
		}
	}
	return out
}
