package store_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-booking/internal/model"
	"clinic-booking/internal/store"
)

func newFileStore(t *testing.T) (*store.FileStore, string, string) {
	t.Helper()
	dir := t.TempDir()
	users := filepath.Join(dir, "users.txt")
	appts := filepath.Join(dir, "appointments.txt")
	return store.NewFile(users, appts), users, appts
}

func booked(patient, doctor, date, tm string) model.Appointment {
	return model.Appointment{Patient: patient, Doctor: doctor, Date: date, Time: tm, Status: model.StatusBooked}
}

func TestMissingFiles(t *testing.T) {
	st, _, _ := newFileStore(t)
	ctx := context.Background()

	appts, err := st.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, appts)

	_, err = st.ListAccounts(ctx)
	assert.ErrorIs(t, err, store.ErrAccountsMissing)

	removed, err := st.RemoveAppointment(ctx, booked("p", "d", "2025-12-05", "10:00"))
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAppointmentRoundTrip(t *testing.T) {
	st, _, path := newFileStore(t)
	ctx := context.Background()

	var want []model.Appointment
	for i := 0; i < 6; i++ {
		a := booked(fmt.Sprintf("p%d", i%2), "dr_a", "2025-12-07", fmt.Sprintf("1%d:00", i))
		require.NoError(t, st.AppendAppointment(ctx, &a))
		require.NotEmpty(t, a.ID)
		want = append(want, a)
	}

	got, err := st.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "p0,dr_a,2025-12-07,10:00,booked\n")
}

func TestMalformedAppointmentLinesSkipped(t *testing.T) {
	st, _, path := newFileStore(t)
	content := "p1,dr_a,2025-12-05,10:00,booked\n" +
		"garbage\n" +
		"\n" +
		"p2,dr_a,2025-12-05,10:30\n" +
		"p3,dr_a,2025-12-05,11:00,booked,extra\n" +
		"  p4,dr_b,2025-12-06,09:00,booked  \r\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := st.ListAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].Patient)
	assert.Equal(t, "p4", got[1].Patient)
	assert.Equal(t, "booked", got[1].Status)
}

func TestAppendRewritesFileDroppingMalformed(t *testing.T) {
	st, _, path := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(path, []byte("garbage\np1,dr_a,2025-12-05,10:00,booked\n"), 0o644))

	a := booked("p2", "dr_a", "2025-12-05", "10:30")
	require.NoError(t, st.AppendAppointment(ctx, &a))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "p1,dr_a,2025-12-05,10:00,booked\np2,dr_a,2025-12-05,10:30,booked\n", string(raw))

	ok, err := st.RemoveAppointmentByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "p1,dr_a,2025-12-05,10:00,booked\n", string(raw))
}

func TestAppendAfterLastLineWithoutNewline(t *testing.T) {
	st, _, path := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(path, []byte("ann,dr_a,2025-12-05,10:00,booked"), 0o644))

	b := booked("bob", "dr_a", "2025-12-05", "10:30")
	require.NoError(t, st.AppendAppointment(ctx, &b))

	got, err := st.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ann", got[0].Patient)
	assert.Equal(t, "10:00", got[0].Time)
	assert.Equal(t, "bob", got[1].Patient)
	assert.Equal(t, b.ID, got[1].ID)
}

func TestRemoveFirstStructuralMatch(t *testing.T) {
	st, _, _ := newFileStore(t)
	ctx := context.Background()

	recs := []model.Appointment{
		booked("p1", "dr_a", "2025-12-05", "10:00"),
		booked("p2", "dr_a", "2025-12-05", "10:30"),
		booked("p1", "dr_b", "2025-12-06", "09:00"),
	}
	for i := range recs {
		require.NoError(t, st.AppendAppointment(ctx, &recs[i]))
	}

	removed, err := st.RemoveAppointment(ctx, booked("p2", "dr_a", "2025-12-05", "10:30"))
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := st.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Appointment{recs[0], recs[2]}, got)
}

func TestIdenticalLinesGetDistinctStableIDs(t *testing.T) {
	st, _, _ := newFileStore(t)
	ctx := context.Background()

	first := booked("p1", "dr_a", "2025-12-05", "10:00")
	second := first
	other := booked("p9", "dr_z", "2025-12-05", "10:00")
	require.NoError(t, st.AppendAppointment(ctx, &first))
	require.NoError(t, st.AppendAppointment(ctx, &other))
	require.NoError(t, st.AppendAppointment(ctx, &second))
	assert.NotEqual(t, first.ID, second.ID)

	again, err := st.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again[0].ID)
	assert.Equal(t, other.ID, again[1].ID)
	assert.Equal(t, second.ID, again[2].ID)

	removed, err := st.RemoveAppointmentByID(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	left, err := st.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, first.ID, left[0].ID)
	assert.Equal(t, second.ID, left[1].ID)

	removed, err = st.RemoveAppointmentByID(ctx, "no-such-id")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAccountsAppendOnly(t *testing.T) {
	st, path, _ := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, st.AppendAccount(ctx, model.UserAccount{Role: model.RolePatient, Username: "ann", Password: "pw"}))
	require.NoError(t, st.AppendAccount(ctx, model.UserAccount{Role: model.RoleDoctor, Username: "dr_a", Password: "x", Specialization: "Cardiology"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "patient,ann,pw\ndoctor,dr_a,x,Cardiology\n", string(raw))

	got, err := st.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "", got[0].Specialization)
	assert.Equal(t, "Cardiology", got[1].Specialization)
}

func TestAccountAppendAfterLineWithoutNewline(t *testing.T) {
	st, path, _ := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(path, []byte("patient,ann,pw"), 0o644))

	require.NoError(t, st.AppendAccount(ctx, model.UserAccount{Role: model.RolePatient, Username: "bob", Password: "pw"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "patient,ann,pw\npatient,bob,pw\n", string(raw))
}

func TestAccountsParsing(t *testing.T) {
	st, path, _ := newFileStore(t)
	content := "patient,ann,pw\n" +
		"doctor,dr_old,pw\n" +
		"nurse,bob,pw\n" +
		"doctor,short\n" +
		"patient,carl,pw,ignored\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := st.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, model.DefaultSpecialization, got[1].Specialization)
	assert.Equal(t, "carl", got[2].Username)
	assert.Equal(t, "", got[2].Specialization)
}

func TestCancelledContext(t *testing.T) {
	st, _, _ := newFileStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.ListAppointments(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
