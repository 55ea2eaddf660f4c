package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"clinic-booking/internal/model"
)

func (s *DBStore) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, patient_username, doctor_username, slot_date, slot_time, status
		 FROM appointments ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.Patient, &a.Doctor, &a.Date, &a.Time, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *DBStore) AppendAppointment(ctx context.Context, a *model.Appointment) error {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO appointments (id, patient_username, doctor_username, slot_date, slot_time, status)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		id, a.Patient, a.Doctor, a.Date, a.Time, a.Status,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	a.ID = id
	return nil
}

// lowest seq wins, same as the first line of the flat file
func (s *DBStore) RemoveAppointment(ctx context.Context, a model.Appointment) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM appointments WHERE id = (
			SELECT id FROM appointments
			WHERE patient_username = $1 AND doctor_username = $2
			  AND slot_date = $3 AND slot_time = $4 AND status = $5
			ORDER BY seq LIMIT 1)`,
		a.Patient, a.Doctor, a.Date, a.Time, a.Status,
	)
	if err != nil {
		return false, fmt.Errorf("delete appointment: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *DBStore) RemoveAppointmentByID(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete appointment: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
