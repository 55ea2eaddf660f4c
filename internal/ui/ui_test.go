package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-booking/internal/auth"
	"clinic-booking/internal/booking"
	"clinic-booking/internal/model"
	"clinic-booking/internal/slots"
	"clinic-booking/internal/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	st := store.NewFile(filepath.Join(dir, "users.txt"), filepath.Join(dir, "appointments.txt"))
	now := func() time.Time { return time.Date(2025, 12, 5, 9, 7, 0, 0, time.Local) }
	gen := slots.NewGenerator()
	gen.Now = now
	svc := booking.New(st, st, gen, auth.Plain{}, zerolog.Nop())

	a := New(test.NewTempApp(t), svc, zerolog.Nop())
	a.now = now
	a.showLogin()
	return a
}

func TestLoginMessages(t *testing.T) {
	a := newTestApp(t)
	v := a.login

	test.Tap(v.loginBtn)
	assert.Equal(t, msgFieldsRequired, v.message.Text)

	test.Type(v.username, "ann")
	test.Type(v.password, "pw")
	test.Tap(v.loginBtn)
	assert.Equal(t, msgNoAccounts, v.message.Text)

	_, err := a.svc.Register(context.Background(), booking.RegisterInput{Role: model.RolePatient, Username: "ann", Password: "other"})
	require.NoError(t, err)
	test.Tap(v.loginBtn)
	assert.Equal(t, msgLoginFailed, v.message.Text)
}

func TestRegisterWindow(t *testing.T) {
	a := newTestApp(t)
	r := newRegisterView(a, a.login)

	test.Tap(r.save)
	assert.Equal(t, msgFieldsRequired, r.message.Text)

	r.role.SetSelected(string(model.RoleDoctor))
	test.Type(r.user, "dr_a")
	test.Type(r.pass, "pw")
	test.Tap(r.save)
	assert.Equal(t, msgRegistered, a.login.message.Text)

	docs, err := a.svc.Doctors(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "dr_a (General)", docs[0].Label())
}

func TestPatientBookAndCancel(t *testing.T) {
	a := newTestApp(t)
	ann := model.Session{Role: model.RolePatient, Username: "ann"}
	v := newPatientView(a, ann)

	assert.Equal(t, "2025-12-05", v.date.Text)
	assert.Equal(t, []string{"dr_smith (General)"}, v.doctor.Options)
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, v.times.Options)

	v.times.ClearSelected()
	v.book()
	assert.Equal(t, msgSelectSlot, v.message.Text)

	v.times.SetSelected("10:30")
	v.book()
	assert.Equal(t, msgBooked, v.message.Text)
	assert.Equal(t, []string{"10:00", "11:00"}, v.times.Options)
	require.Len(t, v.appts.items, 1)
	assert.Equal(t, "Dr: dr_smith 2025-12-05 10:30 Status: booked", patientLine(v.appts.items[0]))

	v.cancel()
	assert.Equal(t, msgSelectCancel, v.message.Text)

	v.appts.list.Select(0)
	v.cancel()
	assert.Equal(t, msgCancelled, v.message.Text)
	assert.Empty(t, v.appts.items)
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, v.times.Options)
}

func TestPatientViewPreselectsAndHidesBooked(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	_, err := a.svc.Book(ctx, model.Session{Role: model.RolePatient, Username: "bob"}, "dr_smith", "2025-12-05", "10:30")
	require.NoError(t, err)

	v := newPatientView(a, model.Session{Role: model.RolePatient, Username: "ann"})
	assert.Equal(t, "dr_smith (General)", v.doctor.Selected)
	assert.Equal(t, []string{"10:00", "11:00"}, v.times.Options)
	assert.Equal(t, "10:00", v.times.Selected)

	// first registered doctor wins once there are any
	_, err = a.svc.Register(ctx, booking.RegisterInput{Role: model.RoleDoctor, Username: "dr_a", Password: "pw", Specialization: "Cardiology"})
	require.NoError(t, err)
	_, err = a.svc.Register(ctx, booking.RegisterInput{Role: model.RoleDoctor, Username: "dr_b", Password: "pw"})
	require.NoError(t, err)
	v = newPatientView(a, model.Session{Role: model.RolePatient, Username: "ann"})
	assert.Equal(t, "dr_a (Cardiology)", v.doctor.Selected)
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, v.times.Options)
	assert.Equal(t, "10:00", v.times.Selected)
}

func TestPatientSlotTaken(t *testing.T) {
	a := newTestApp(t)
	_, err := a.svc.Book(context.Background(), model.Session{Role: model.RolePatient, Username: "bob"}, "dr_smith", "2025-12-06", "09:00")
	require.NoError(t, err)

	v := newPatientView(a, model.Session{Role: model.RolePatient, Username: "ann"})
	v.doctor.SetSelected("dr_smith (General)")
	v.shiftDate(1)
	assert.Equal(t, "2025-12-06", v.date.Text)
	assert.Equal(t, []string{"09:30", "10:00"}, v.times.Options)

	// bypass the picker to hit the taken path
	v.times.Options = append(v.times.Options, "09:00")
	v.times.SetSelected("09:00")
	v.book()
	assert.Equal(t, msgSlotTaken, v.message.Text)
}

func TestDoctorSchedule(t *testing.T) {
	a := newTestApp(t)
	_, err := a.svc.Book(context.Background(), model.Session{Role: model.RolePatient, Username: "ann"}, "dr_a", "2025-12-05", "10:00")
	require.NoError(t, err)

	v := newDoctorView(a, model.Session{Role: model.RoleDoctor, Username: "dr_a"})
	require.Len(t, v.appts.items, 1)
	assert.Equal(t, "Patient: ann 2025-12-05 10:00 Status: booked", doctorLine(v.appts.items[0]))
}
