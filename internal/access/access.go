// Package access maps user roles to the closed set of client capabilities.
package access

import (
	"errors"

	"roombook-client/internal/model"
)

// ErrForbidden is returned when the current user lacks a capability.
var ErrForbidden = errors.New("you do not have permission to perform this action")

// Capability is a single permission checked by the workflows.
type Capability string

const (
	ViewRooms           Capability = "rooms:view"
	BookRooms           Capability = "rooms:book"
	ManageRooms         Capability = "rooms:manage"
	ViewOwnReservations Capability = "reservations:own"
	ViewAllReservations Capability = "reservations:all"
	CancelReservations  Capability = "reservations:cancel"
	ManageUsers         Capability = "users:manage"
)

var userCaps = []Capability{ViewRooms, BookRooms, ViewOwnReservations, CancelReservations}

var adminCaps = append(append([]Capability(nil), userCaps...), ManageRooms, ViewAllReservations, ManageUsers)

// For returns the capabilities granted to role. Unknown roles get none.
func For(role model.Role) []Capability {
	switch role {
	case model.RoleAdmin:
		return append([]Capability(nil), adminCaps...)
	case model.RoleUser:
		return append([]Capability(nil), userCaps...)
	}
	return nil
}

// Has reports whether user holds c. A nil user holds nothing.
func Has(user *model.User, c Capability) bool {
	if user == nil {
		return false
	}
	for _, granted := range For(user.Role) {
		if granted == c {
			return true
		}
	}
	return false
}

// Require returns ErrForbidden unless user holds c.
func Require(user *model.User, c Capability) error {
	if !Has(user, c) {
		return ErrForbidden
	}
	return nil
}

// IsAdmin reports whether user has the administrator role.
func IsAdmin(user *model.User) bool {
	return user != nil && user.Role == model.RoleAdmin
}
