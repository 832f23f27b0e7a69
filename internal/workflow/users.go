package workflow

import (
	"context"
	"fmt"
	"log"
	"sync"

	"roombook-client/internal/access"
	"roombook-client/internal/model"
	"roombook-client/internal/notification"
)

// UserAPI is the user backend used by the directory.
type UserAPI interface {
	List(ctx context.Context) ([]model.User, error)
}

// RoleCounts summarizes the directory.
type RoleCounts struct {
	Total  int
	Admins int
	Users  int
}

// UserDirectory is the admin user list.
type UserDirectory struct {
	api     UserAPI
	session UserSource
	notify  notification.Notifier

	mu    sync.Mutex
	users []model.User
	err   string
}

// NewUserDirectory creates the directory.
func NewUserDirectory(api UserAPI, session UserSource, notify notification.Notifier) *UserDirectory {
	if notify == nil {
		notify = notification.Discard
	}
	return &UserDirectory{api: api, session: session, notify: notify}
}

// Load fetches every user.
func (d *UserDirectory) Load(ctx context.Context) error {
	if err := access.Require(d.session.User(), access.ManageUsers); err != nil {
		return err
	}

	users, err := d.api.List(ctx)
	if err != nil {
		log.Printf("Error fetching users: %v", err)
		d.mu.Lock()
		d.err = "Failed to load users"
		d.mu.Unlock()
		d.notify.Notify(notification.Failure("Failed to load users",
			"The users could not be loaded. Please try again."))
		return fmt.Errorf("failed to load users: %w", err)
	}

	d.mu.Lock()
	d.users = users
	d.err = ""
	d.mu.Unlock()
	return nil
}

// Users returns the loaded users.
func (d *UserDirectory) Users() []model.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.User(nil), d.users...)
}

// Err returns the message of the last failed load, or "".
func (d *UserDirectory) Err() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Counts tallies the loaded users by role.
func (d *UserDirectory) Counts() RoleCounts {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := RoleCounts{Total: len(d.users)}
	for _, u := range d.users {
		switch u.Role {
		case model.RoleAdmin:
			c.Admins++
		case model.RoleUser:
			c.Users++
		}
	}
	return c
}
