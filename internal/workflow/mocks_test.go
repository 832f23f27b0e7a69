package workflow

import (
	"context"
	"sync"

	"roombook-client/internal/model"
	"roombook-client/internal/notification"
)

type mockRooms struct {
	ListFunc         func(ctx context.Context) ([]model.Room, error)
	GetFunc          func(ctx context.Context, id int64) (model.Room, error)
	GetAvailableFunc func(ctx context.Context, startTime, endTime string) ([]model.Room, error)
	CreateFunc       func(ctx context.Context, in model.RoomInput) (model.Room, error)
	UpdateFunc       func(ctx context.Context, id int64, in model.RoomInput) (model.Room, error)
	DeleteFunc       func(ctx context.Context, id int64) error
}

func (m *mockRooms) List(ctx context.Context) ([]model.Room, error) { return m.ListFunc(ctx) }

func (m *mockRooms) Get(ctx context.Context, id int64) (model.Room, error) { return m.GetFunc(ctx, id) }

func (m *mockRooms) GetAvailable(ctx context.Context, startTime, endTime string) ([]model.Room, error) {
	return m.GetAvailableFunc(ctx, startTime, endTime)
}

func (m *mockRooms) Create(ctx context.Context, in model.RoomInput) (model.Room, error) {
	return m.CreateFunc(ctx, in)
}

func (m *mockRooms) Update(ctx context.Context, id int64, in model.RoomInput) (model.Room, error) {
	return m.UpdateFunc(ctx, id, in)
}

func (m *mockRooms) Delete(ctx context.Context, id int64) error { return m.DeleteFunc(ctx, id) }

type mockReservations struct {
	ListAllFunc  func(ctx context.Context) ([]model.Reservation, error)
	ListMineFunc func(ctx context.Context) ([]model.Reservation, error)
	CreateFunc   func(ctx context.Context, in model.CreateReservationInput) (model.Reservation, error)
	CancelFunc   func(ctx context.Context, id int64) error
}

func (m *mockReservations) ListAll(ctx context.Context) ([]model.Reservation, error) {
	return m.ListAllFunc(ctx)
}

func (m *mockReservations) ListMine(ctx context.Context) ([]model.Reservation, error) {
	return m.ListMineFunc(ctx)
}

func (m *mockReservations) Create(ctx context.Context, in model.CreateReservationInput) (model.Reservation, error) {
	return m.CreateFunc(ctx, in)
}

func (m *mockReservations) Cancel(ctx context.Context, id int64) error { return m.CancelFunc(ctx, id) }

type mockUsers struct {
	ListFunc func(ctx context.Context) ([]model.User, error)
}

func (m *mockUsers) List(ctx context.Context) ([]model.User, error) { return m.ListFunc(ctx) }

type fixedUser struct{ user *model.User }

func (f fixedUser) User() *model.User { return f.user }

var (
	admin  = fixedUser{&model.User{ID: 1, Username: "admin1", Role: model.RoleAdmin}}
	member = fixedUser{&model.User{ID: 2, Username: "user1", Role: model.RoleUser}}
	nobody = fixedUser{}
)

type recordingNotifier struct {
	mu  sync.Mutex
	got []notification.Notification
}

func (r *recordingNotifier) Notify(n notification.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recordingNotifier) levels() []notification.Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.Level, 0, len(r.got))
	for _, n := range r.got {
		out = append(out, n.Level)
	}
	return out
}

type recordingNavigator struct {
	paths []string
}

func (r *recordingNavigator) Navigate(path string) { r.paths = append(r.paths, path) }

func threeRooms() []model.Room {
	return []model.Room{
		{ID: 1, Name: "Room A", Capacity: 4, Active: true},
		{ID: 2, Name: "Room B", Capacity: 8, Active: true},
		{ID: 3, Name: "Room C", Capacity: 12, Active: true},
	}
}
