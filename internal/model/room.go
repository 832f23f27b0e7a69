package model

// Room represents a meeting room as returned by the backend.
type Room struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Capacity    int    `json:"capacity"`
	Location    string `json:"location,omitempty"`
	Equipment   string `json:"equipment,omitempty"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"createdAt"`
	CreatedBy   string `json:"createdBy"`
}

// RoomInput is the payload for creating or updating a room.
type RoomInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Capacity    int    `json:"capacity" validate:"min=1"`
	Location    string `json:"location,omitempty"`
	Equipment   string `json:"equipment,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

// RoomInputFrom pre-fills an edit form from an existing room.
func RoomInputFrom(r Room) RoomInput {
	active := r.Active
	return RoomInput{
		Name:        r.Name,
		Description: r.Description,
		Capacity:    r.Capacity,
		Location:    r.Location,
		Equipment:   r.Equipment,
		Active:      &active,
	}
}
