package workflow

import (
	"context"
	"fmt"
	"log"
	"sync"

	"roombook-client/internal/access"
	"roombook-client/internal/model"
	"roombook-client/internal/notification"
	"roombook-client/internal/validation"
)

// RoomAPI is the room backend used by the catalog screens.
type RoomAPI interface {
	List(ctx context.Context) ([]model.Room, error)
	Get(ctx context.Context, id int64) (model.Room, error)
	Create(ctx context.Context, in model.RoomInput) (model.Room, error)
	Update(ctx context.Context, id int64, in model.RoomInput) (model.Room, error)
	Delete(ctx context.Context, id int64) error
}

// RoomCatalog lists rooms and lets admins maintain them.
type RoomCatalog struct {
	api     RoomAPI
	session UserSource
	confirm Confirmer
	notify  notification.Notifier
	nav     Navigator

	mu    sync.Mutex
	rooms []model.Room
	err   string
}

// NewRoomCatalog creates the room catalog.
func NewRoomCatalog(api RoomAPI, session UserSource, confirm Confirmer, notify notification.Notifier, nav Navigator) *RoomCatalog {
	if confirm == nil {
		confirm = AlwaysConfirm
	}
	if notify == nil {
		notify = notification.Discard
	}
	if nav == nil {
		nav = nowhere{}
	}
	return &RoomCatalog{api: api, session: session, confirm: confirm, notify: notify, nav: nav}
}

// Load fetches every room.
func (c *RoomCatalog) Load(ctx context.Context) error {
	if err := access.Require(c.session.User(), access.ViewRooms); err != nil {
		return err
	}

	rooms, err := c.api.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		log.Printf("Error fetching rooms: %v", err)
		c.err = "Failed to load rooms"
		return fmt.Errorf("failed to load rooms: %w", err)
	}
	c.rooms = rooms
	c.err = ""
	return nil
}

// Rooms returns the loaded rooms.
func (c *RoomCatalog) Rooms() []model.Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Room(nil), c.rooms...)
}

// Err returns the message of the last failed load, or "".
func (c *RoomCatalog) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Edit loads a room into form values for editing.
func (c *RoomCatalog) Edit(ctx context.Context, id int64) (model.RoomInput, error) {
	if err := access.Require(c.session.User(), access.ManageRooms); err != nil {
		return model.RoomInput{}, err
	}
	room, err := c.api.Get(ctx, id)
	if err != nil {
		c.notify.Notify(notification.Failure("Failed to load room", "The room could not be loaded."))
		return model.RoomInput{}, fmt.Errorf("failed to load room %d: %w", id, err)
	}
	return model.RoomInputFrom(room), nil
}

// Create adds a room and returns to the catalog.
func (c *RoomCatalog) Create(ctx context.Context, in model.RoomInput) (model.Room, error) {
	if err := access.Require(c.session.User(), access.ManageRooms); err != nil {
		return model.Room{}, err
	}
	if err := validation.Room(in); err != nil {
		return model.Room{}, err
	}

	room, err := c.api.Create(ctx, in)
	if err != nil {
		log.Printf("Error creating room: %v", err)
		c.notify.Notify(notification.Failure("Failed to create room",
			"An error occurred while creating the room. Please try again."))
		return model.Room{}, fmt.Errorf("failed to create room: %w", err)
	}

	c.notify.Notify(notification.Success("Room created", fmt.Sprintf("The room %q has been created.", room.Name)))
	c.afterMutation(ctx)
	return room, nil
}

// Update saves changes to a room and returns to the catalog.
func (c *RoomCatalog) Update(ctx context.Context, id int64, in model.RoomInput) (model.Room, error) {
	if err := access.Require(c.session.User(), access.ManageRooms); err != nil {
		return model.Room{}, err
	}
	if err := validation.Room(in); err != nil {
		return model.Room{}, err
	}

	room, err := c.api.Update(ctx, id, in)
	if err != nil {
		log.Printf("Error updating room %d: %v", id, err)
		c.notify.Notify(notification.Failure("Failed to update room",
			"An error occurred while updating the room. Please try again."))
		return model.Room{}, fmt.Errorf("failed to update room %d: %w", id, err)
	}

	c.notify.Notify(notification.Success("Room updated", fmt.Sprintf("The room %q has been updated.", room.Name)))
	c.afterMutation(ctx)
	return room, nil
}

// Delete asks for confirmation and removes a room.
func (c *RoomCatalog) Delete(ctx context.Context, id int64) error {
	if err := access.Require(c.session.User(), access.ManageRooms); err != nil {
		return err
	}

	name := fmt.Sprintf("#%d", id)
	c.mu.Lock()
	for _, r := range c.rooms {
		if r.ID == id {
			name = r.Name
			break
		}
	}
	c.mu.Unlock()

	if !c.confirm.Confirm(fmt.Sprintf("Are you sure you want to delete the room %q?", name)) {
		return ErrCancelled
	}

	if err := c.api.Delete(ctx, id); err != nil {
		log.Printf("Error deleting room %d: %v", id, err)
		c.notify.Notify(notification.Failure("Failed to delete room",
			"An error occurred while deleting the room. Please try again."))
		return fmt.Errorf("failed to delete room %d: %w", id, err)
	}

	c.notify.Notify(notification.Success("Room deleted", fmt.Sprintf("The room %q has been deleted.", name)))
	return c.Load(ctx)
}

func (c *RoomCatalog) afterMutation(ctx context.Context) {
	c.nav.Navigate(RoomsPath)
	if err := c.Load(ctx); err != nil {
		log.Printf("Error refreshing rooms: %v", err)
	}
}
