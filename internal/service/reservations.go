package service

import (
	"context"

	"roombook-client/internal/model"
)

const reservationsPath = "/reservations"

// ReservationService talks to /reservations.
type ReservationService struct {
	api Requester
}

// NewReservationService creates a ReservationService.
func NewReservationService(api Requester) *ReservationService {
	return &ReservationService{api: api}
}

// ListAll returns every reservation in the system (admin).
func (s *ReservationService) ListAll(ctx context.Context) ([]model.Reservation, error) {
	var out []model.Reservation
	if err := s.api.Get(ctx, reservationsPath+"/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMine returns the caller's reservations.
func (s *ReservationService) ListMine(ctx context.Context) ([]model.Reservation, error) {
	var out []model.Reservation
	if err := s.api.Get(ctx, reservationsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one reservation.
func (s *ReservationService) Get(ctx context.Context, id int64) (model.Reservation, error) {
	var out model.Reservation
	if err := s.api.Get(ctx, idPath(reservationsPath, id), nil, &out); err != nil {
		return model.Reservation{}, err
	}
	return out, nil
}

// Create books a room.
func (s *ReservationService) Create(ctx context.Context, in model.CreateReservationInput) (model.Reservation, error) {
	var out model.Reservation
	if err := s.api.Post(ctx, reservationsPath, in, &out); err != nil {
		return model.Reservation{}, err
	}
	return out, nil
}

// Cancel cancels a reservation.
func (s *ReservationService) Cancel(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, idPath(reservationsPath, id))
}
