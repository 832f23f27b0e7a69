package model

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusActive    ReservationStatus = "ACTIVE"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusCompleted ReservationStatus = "COMPLETED"
)

// RoomSummary is the room snapshot embedded in a reservation.
type RoomSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Capacity int    `json:"capacity"`
}

// Reservation represents a booking of one room by one user.
type Reservation struct {
	ID        int64             `json:"id"`
	StartTime string            `json:"startTime"`
	EndTime   string            `json:"endTime"`
	Purpose   string            `json:"purpose,omitempty"`
	Status    ReservationStatus `json:"status"`
	CreatedAt string            `json:"createdAt"`
	UserID    int64             `json:"userId"`
	Room      RoomSummary       `json:"room"`
	UserName  string            `json:"userName"`
}

// IsActive reports whether the reservation can still be cancelled.
func (r Reservation) IsActive() bool {
	return r.Status == StatusActive
}

// CreateReservationInput is the payload for booking a room. The ordering of
// StartTime and EndTime is checked by a struct-level rule in the validation package.
type CreateReservationInput struct {
	RoomID    int64  `json:"roomId" validate:"min=1"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Purpose   string `json:"purpose,omitempty"`
}
