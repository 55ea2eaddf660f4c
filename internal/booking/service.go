// Package booking holds the clinic's use cases: accounts, login, slot
// lookup, booking and cancellation. Views and the HTTP API both call it
// with an explicit model.Session.
package booking

import (
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"clinic-booking/internal/auth"
	"clinic-booking/internal/logger"
	"clinic-booking/internal/model"
	"clinic-booking/internal/slots"
	"clinic-booking/internal/store"
)

var (
	ErrFieldsRequired   = errors.New("all fields required")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidDate      = slots.ErrInvalidDate
	ErrInvalidTime      = errors.New("invalid time")
	ErrInvalidField     = errors.New("fields may not contain commas or line breaks")
	ErrSlotTaken        = errors.New("slot already booked")
	ErrLoginFailed      = errors.New("login failed")
	ErrNoAccounts       = errors.New("no users registered")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("not allowed for this role")
)

// FallbackDoctor is offered when nobody has registered as a doctor yet.
var FallbackDoctor = model.UserAccount{
	Role:           model.RoleDoctor,
	Username:       "dr_smith",
	Specialization: model.DefaultSpecialization,
}

type Service struct {
	appts    store.AppointmentStore
	accounts store.AccountStore
	slots    *slots.Generator
	hasher   auth.PasswordHasher
	log      zerolog.Logger

	// check-then-append and cancel must not interleave
	mu sync.Mutex
}

func New(appts store.AppointmentStore, accounts store.AccountStore, gen *slots.Generator, hasher auth.PasswordHasher, log zerolog.Logger) *Service {
	if gen == nil {
		gen = slots.NewGenerator()
	}
	if hasher == nil {
		hasher = auth.Plain{}
	}
	return &Service{
		appts:    appts,
		accounts: accounts,
		slots:    gen,
		hasher:   hasher,
		log:      logger.Component(log, "booking"),
	}
}

// every value ends up as one field of a comma separated line
func validField(vals ...string) error {
	for _, v := range vals {
		if strings.ContainsAny(v, ",\r\n") {
			return ErrInvalidField
		}
	}
	return nil
}
