package store

import (
	"context"
	"errors"
	"io/fs"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"clinic-booking/internal/model"
)

// recordSpace namespaces the derived IDs of file backed appointments.
var recordSpace = uuid.MustParse("5b0c6f0e-6a51-4d8e-9f3c-2f4a1c7e9b10")

func encodeAppointment(a model.Appointment) string {
	return strings.Join([]string{a.Patient, a.Doctor, a.Date, a.Time, a.Status}, ",")
}

func decodeAppointment(line string) (model.Appointment, bool) {
	p := strings.Split(line, ",")
	if len(p) != 5 {
		return model.Appointment{}, false
	}
	return model.Appointment{Patient: p[0], Doctor: p[1], Date: p[2], Time: p[3], Status: p[4]}, true
}

// recordID is stable as long as the line and the number of identical lines
// before it do not change.
func recordID(line string, occurrence int) string {
	return uuid.NewSHA1(recordSpace, []byte(line+"#"+strconv.Itoa(occurrence))).String()
}

func (f *FileStore) readAppointments() ([]model.Appointment, error) {
	lines, err := readLines(f.apptsPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	out := make([]model.Appointment, 0, len(lines))
	seen := make(map[string]int)
	for _, line := range lines {
		a, ok := decodeAppointment(line)
		if !ok {
			continue // wrong field count
		}
		a.ID = recordID(line, seen[line])
		seen[line]++
		out = append(out, a)
	}
	return out, nil
}

func (f *FileStore) writeAppointments(list []model.Appointment) error {
	lines := make([]string, len(list))
	for i, a := range list {
		lines[i] = encodeAppointment(a)
	}
	return writeLines(f.apptsPath, lines)
}

func (f *FileStore) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.readAppointments()
}

func (f *FileStore) AppendAppointment(ctx context.Context, a *model.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	list, err := f.readAppointments()
	if err != nil {
		return err
	}
	line := encodeAppointment(*a)
	n := 0
	for _, x := range list {
		if encodeAppointment(x) == line {
			n++
		}
	}
	if err := f.writeAppointments(append(list, *a)); err != nil {
		return err
	}
	a.ID = recordID(line, n)
	return nil
}

func (f *FileStore) RemoveAppointment(ctx context.Context, a model.Appointment) (bool, error) {
	return f.removeFirst(ctx, func(x model.Appointment) bool { return x.SameRecord(a) })
}

func (f *FileStore) RemoveAppointmentByID(ctx context.Context, id string) (bool, error) {
	return f.removeFirst(ctx, func(x model.Appointment) bool { return x.ID == id })
}

func (f *FileStore) removeFirst(ctx context.Context, match func(model.Appointment) bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	list, err := f.readAppointments()
	if err != nil {
		return false, err
	}
	for i, x := range list {
		if match(x) {
			return true, f.writeAppointments(append(list[:i], list[i+1:]...))
		}
	}
	return false, nil
}
