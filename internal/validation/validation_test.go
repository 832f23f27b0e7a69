package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombook-client/internal/model"
)

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	require.Error(t, err)
	var fe FieldErrors
	require.True(t, errors.As(err, &fe), "expected FieldErrors, got %T", err)
	return fe
}

func TestReservation(t *testing.T) {
	testCases := []struct {
		name        string
		input       model.CreateReservationInput
		expectField string
		expectMsg   string
	}{
		{
			name:  "Valid window",
			input: model.CreateReservationInput{RoomID: 1, StartTime: "2025-01-02T09:00", EndTime: "2025-01-02T10:00"},
		},
		{
			name:        "End before start",
			input:       model.CreateReservationInput{RoomID: 1, StartTime: "2025-01-02T09:00", EndTime: "2025-01-02T08:00"},
			expectField: "endTime",
			expectMsg:   "end time must be after start time",
		},
		{
			name:        "End equals start",
			input:       model.CreateReservationInput{RoomID: 1, StartTime: "2025-01-02T09:00", EndTime: "2025-01-02T09:00"},
			expectField: "endTime",
		},
		{
			name:        "End before start without room",
			input:       model.CreateReservationInput{StartTime: "2025-01-02T09:00", EndTime: "2025-01-02T08:00"},
			expectField: "endTime",
		},
		{
			name:        "Missing room",
			input:       model.CreateReservationInput{StartTime: "2025-01-02T09:00", EndTime: "2025-01-02T10:00"},
			expectField: "roomId",
		},
		{
			name:        "Missing start",
			input:       model.CreateReservationInput{RoomID: 2, EndTime: "2025-01-02T10:00"},
			expectField: "startTime",
			expectMsg:   "startTime is required",
		},
		{
			name:        "Unparseable end",
			input:       model.CreateReservationInput{RoomID: 2, StartTime: "2025-01-02T09:00", EndTime: "later"},
			expectField: "endTime",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Reservation(tc.input)
			if tc.expectField == "" {
				assert.NoError(t, err)
				return
			}
			fe := fieldErrors(t, err)
			assert.Contains(t, fe, tc.expectField)
			if tc.expectMsg != "" {
				assert.Equal(t, tc.expectMsg, fe[tc.expectField])
			}
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestReservationIn_UsesLocation(t *testing.T) {
	// The start has no offset and is read in loc; the end is pinned to UTC.
	in := model.CreateReservationInput{RoomID: 1, StartTime: "2025-01-02T09:00", EndTime: "2025-01-02T09:30:00Z"}

	east := time.FixedZone("UTC+2", 2*60*60)
	assert.NoError(t, ReservationIn(in, east))

	west := time.FixedZone("UTC-2", -2*60*60)
	fe := fieldErrors(t, ReservationIn(in, west))
	assert.Equal(t, "end time must be after start time", fe["endTime"])
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login(model.LoginInput{Username: "admin1", Password: "secret1"}))

	fe := fieldErrors(t, Login(model.LoginInput{Username: "", Password: "123"}))
	assert.Equal(t, "username is required", fe["username"])
	assert.Equal(t, "password must be at least 6 characters", fe["password"])
}

func TestRegister(t *testing.T) {
	assert.NoError(t, Register(model.RegisterInput{Username: "ana", Email: "ana@example.com", Password: "secret1"}))

	fe := fieldErrors(t, Register(model.RegisterInput{Username: "ana", Email: "not-an-email", Password: "secret1", Role: "ROOT"}))
	assert.Equal(t, "email must be a valid address", fe["email"])
	assert.Contains(t, fe, "role")
}

func TestRoom(t *testing.T) {
	assert.NoError(t, Room(model.RoomInput{Name: "Board Room", Capacity: 1}))

	fe := fieldErrors(t, Room(model.RoomInput{Capacity: 0}))
	assert.Equal(t, "name is required", fe["name"])
	assert.Equal(t, "capacity must be at least 1", fe["capacity"])
}

func TestFieldErrors_Error(t *testing.T) {
	fe := FieldErrors{"name": "name is required", "capacity": "capacity must be at least 1"}
	assert.Equal(t, "capacity: capacity must be at least 1; name: name is required", fe.Error())
}
