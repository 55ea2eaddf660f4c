package store

import (
	"context"
	"errors"

	"clinic-booking/internal/model"
)

// ErrDuplicate is returned when the backend itself refuses a second booked
// record for the same doctor, date and time.
var ErrDuplicate = errors.New("duplicate booked slot")

// ErrAccountsMissing means the accounts file has never been created. An
// existing file with no usable lines is just an empty list.
var ErrAccountsMissing = errors.New("accounts file missing")

type AppointmentStore interface {
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	AppendAppointment(ctx context.Context, a *model.Appointment) error
	// RemoveAppointment deletes the first record whose persisted fields
	// equal a's. It reports whether anything was removed.
	RemoveAppointment(ctx context.Context, a model.Appointment) (bool, error)
	RemoveAppointmentByID(ctx context.Context, id string) (bool, error)
}

type AccountStore interface {
	ListAccounts(ctx context.Context) ([]model.UserAccount, error)
	AppendAccount(ctx context.Context, u model.UserAccount) error
}

type Store interface {
	AppointmentStore
	AccountStore
	Close() error
}
