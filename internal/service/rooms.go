package service

import (
	"context"
	"net/url"

	"roombook-client/internal/model"
)

const roomsPath = "/rooms"

// RoomService talks to /rooms.
type RoomService struct {
	api Requester
}

// NewRoomService creates a RoomService.
func NewRoomService(api Requester) *RoomService {
	return &RoomService{api: api}
}

// List returns every room.
func (s *RoomService) List(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.api.Get(ctx, roomsPath, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// Get returns one room.
func (s *RoomService) Get(ctx context.Context, id int64) (model.Room, error) {
	var room model.Room
	if err := s.api.Get(ctx, idPath(roomsPath, id), nil, &room); err != nil {
		return model.Room{}, err
	}
	return room, nil
}

// GetAvailable asks the backend for rooms free across [startTime, endTime).
// The result is authoritative; overlap is not re-checked here.
func (s *RoomService) GetAvailable(ctx context.Context, startTime, endTime string) ([]model.Room, error) {
	q := url.Values{}
	q.Set("startTime", startTime)
	q.Set("endTime", endTime)

	var rooms []model.Room
	if err := s.api.Get(ctx, roomsPath+"/available", q, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// Create adds a room (admin).
func (s *RoomService) Create(ctx context.Context, in model.RoomInput) (model.Room, error) {
	var room model.Room
	if err := s.api.Post(ctx, roomsPath, in, &room); err != nil {
		return model.Room{}, err
	}
	return room, nil
}

// Update replaces a room's fields (admin).
func (s *RoomService) Update(ctx context.Context, id int64, in model.RoomInput) (model.Room, error) {
	var room model.Room
	if err := s.api.Put(ctx, idPath(roomsPath, id), in, &room); err != nil {
		return model.Room{}, err
	}
	return room, nil
}

// Delete removes a room (admin).
func (s *RoomService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, idPath(roomsPath, id))
}
