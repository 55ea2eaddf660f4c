// Package ui is the fyne desktop front end: login, registration and one
// dashboard per role. Every action goes through booking.Service with an
// explicit Session.
package ui

import (
	"context"
	"errors"
	"time"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog"

	"clinic-booking/internal/booking"
	"clinic-booking/internal/logger"
	"clinic-booking/internal/model"
)

const (
	msgFieldsRequired = "All fields required."
	msgLoginFailed    = "Login failed."
	msgNoAccounts     = "No users file. Please register."
	msgRegistered     = "Registered. Please login."
	msgSelectSlot     = "Select time and doctor."
	msgSlotTaken      = "Slot already booked."
	msgBooked         = "Appointment booked."
	msgSelectCancel   = "Select an appointment to cancel."
	msgBadSelection   = "Invalid selection."
	msgCancelled      = "Appointment cancelled."
	msgStorage        = "Could not save. Please try again."
)

var roles = []string{string(model.RolePatient), string(model.RoleDoctor)}

type App struct {
	app   fyne.App
	svc   *booking.Service
	log   zerolog.Logger
	now   func() time.Time
	login *loginView
}

func New(a fyne.App, svc *booking.Service, log zerolog.Logger) *App {
	return &App{
		app: a,
		svc: svc,
		log: logger.Component(log, "ui"),
		now: time.Now,
	}
}

// Run shows the login window and blocks until the app quits.
func (a *App) Run() {
	a.showLogin()
	a.app.Run()
}

func (a *App) showLogin() {
	if a.login == nil {
		a.login = newLoginView(a)
	}
	a.login.window.Show()
}

func (a *App) openDashboard(sess model.Session) {
	a.login.window.Hide()
	var w fyne.Window
	if sess.IsDoctor() {
		w = newDoctorView(a, sess).window
	} else {
		w = newPatientView(a, sess).window
	}
	w.Show()
}

func (a *App) ctx() context.Context { return context.Background() }

// storageFailed logs err and returns the message shown to the user.
func (a *App) storageFailed(err error, action string) string {
	a.log.Error().Err(err).Str("action", action).Msg("storage failure")
	return msgStorage
}

func isInput(err error) bool {
	return errors.Is(err, booking.ErrFieldsRequired) ||
		errors.Is(err, booking.ErrInvalidRole) ||
		errors.Is(err, booking.ErrInvalidField) ||
		errors.Is(err, booking.ErrInvalidDate) ||
		errors.Is(err, booking.ErrInvalidTime)
}
