// Package validation checks form inputs before any request is sent.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"roombook-client/internal/model"
	"roombook-client/internal/parse"
)

// ErrInvalid is matched by every FieldErrors value.
var ErrInvalid = errors.New("validation failed")

// FieldErrors maps a JSON field name to its first error message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, fe[f]))
	}
	return strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrInvalid) match.
func (fe FieldErrors) Is(target error) bool {
	return target == ErrInvalid
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// reservationWindow requires startTime to be strictly before endTime, both
// read in loc, and reports the violation on endTime.
func reservationWindow(in model.CreateReservationInput, loc *time.Location) FieldErrors {
	if in.StartTime == "" || in.EndTime == "" {
		return nil
	}
	start, err := parse.Timestamp(in.StartTime, loc)
	if err != nil {
		return FieldErrors{"startTime": "startTime is not a valid date and time"}
	}
	end, err := parse.Timestamp(in.EndTime, loc)
	if err != nil {
		return FieldErrors{"endTime": "endTime is not a valid date and time"}
	}
	if !start.Before(end) {
		return FieldErrors{"endTime": "end time must be after start time"}
	}
	return nil
}

// Struct validates v and returns FieldErrors, or nil when v is valid.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
	case "email":
		return "email must be a valid address"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// Login validates the login form.
func Login(in model.LoginInput) error { return Struct(in) }

// Register validates the sign-up form.
func Register(in model.RegisterInput) error { return Struct(in) }

// Room validates the room create/edit form.
func Room(in model.RoomInput) error { return Struct(in) }

// Reservation validates the booking form with times read in time.Local.
func Reservation(in model.CreateReservationInput) error {
	return ReservationIn(in, time.Local)
}

// ReservationIn validates the booking form with times read in loc.
func ReservationIn(in model.CreateReservationInput, loc *time.Location) error {
	fe := FieldErrors{}
	if err := Struct(in); err != nil && !errors.As(err, &fe) {
		return err
	}
	for field, msg := range reservationWindow(in, loc) {
		if _, seen := fe[field]; !seen {
			fe[field] = msg
		}
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}
