package booking

import (
	"context"
	"errors"
	"time"

	"clinic-booking/internal/model"
	"clinic-booking/internal/store"
)

func validDate(date string) error {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func validTime(tm string) error {
	if len(tm) != len(model.TimeLayout) {
		return ErrInvalidTime
	}
	if _, err := time.Parse(model.TimeLayout, tm); err != nil {
		return ErrInvalidTime
	}
	return nil
}

func isBookedSlot(a model.Appointment, doctor, date string) bool {
	return a.Doctor == doctor && a.Date == date && a.Status == model.StatusBooked
}

// AvailableSlots returns the times still open for doctor on date. With no
// doctor chosen nothing is filtered out.
func (s *Service) AvailableSlots(ctx context.Context, doctor, date string) ([]string, error) {
	var booked []string
	if doctor != "" {
		all, err := s.appts.ListAppointments(ctx)
		if err != nil {
			return nil, err
		}
		for _, a := range all {
			if isBookedSlot(a, doctor, date) {
				booked = append(booked, a.Time)
			}
		}
	}
	return s.slots.Available(date, booked)
}

func (s *Service) Book(ctx context.Context, sess model.Session, doctor, date, tm string) (model.Appointment, error) {
	if !sess.IsPatient() {
		return model.Appointment{}, ErrForbidden
	}
	if doctor == "" || date == "" || tm == "" {
		return model.Appointment{}, ErrFieldsRequired
	}
	if err := validDate(date); err != nil {
		return model.Appointment{}, err
	}
	if err := validTime(tm); err != nil {
		return model.Appointment{}, err
	}
	if err := validField(sess.Username, doctor); err != nil {
		return model.Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.appts.ListAppointments(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	for _, a := range all {
		if isBookedSlot(a, doctor, date) && a.Time == tm {
			return model.Appointment{}, ErrSlotTaken
		}
	}

	appt := model.Appointment{
		Patient: sess.Username,
		Doctor:  doctor,
		Date:    date,
		Time:    tm,
		Status:  model.StatusBooked,
	}
	if err := s.appts.AppendAppointment(ctx, &appt); err != nil {
		// the database caught a booking made by another process
		if errors.Is(err, store.ErrDuplicate) {
			return model.Appointment{}, ErrSlotTaken
		}
		s.log.Error().Err(err).Str("patient", sess.Username).Msg("book failed")
		return model.Appointment{}, err
	}

	s.log.Info().
		Str("patient", appt.Patient).
		Str("doctor", appt.Doctor).
		Str("date", appt.Date).
		Str("time", appt.Time).
		Msg("appointment booked")
	return appt, nil
}

// CancelAt cancels the position-th record of the patient's own list, in
// the order PatientAppointments returns it. The first record in the
// whole store with the same fields is the one removed.
func (s *Service) CancelAt(ctx context.Context, sess model.Session, position int) (model.Appointment, error) {
	if !sess.IsPatient() {
		return model.Appointment{}, ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	own, err := s.own(ctx, sess.Username)
	if err != nil {
		return model.Appointment{}, err
	}
	if position < 0 || position >= len(own) {
		return model.Appointment{}, ErrInvalidSelection
	}
	target := own[position]

	removed, err := s.appts.RemoveAppointment(ctx, target)
	if err != nil {
		s.log.Error().Err(err).Str("patient", sess.Username).Msg("cancel failed")
		return model.Appointment{}, err
	}
	if !removed {
		return model.Appointment{}, ErrInvalidSelection
	}
	s.logCancel(target)
	return target, nil
}

// Cancel removes exactly the record with the given id. Other patients'
// records look the same as missing ones.
func (s *Service) Cancel(ctx context.Context, sess model.Session, id string) (model.Appointment, error) {
	if !sess.IsPatient() {
		return model.Appointment{}, ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	own, err := s.own(ctx, sess.Username)
	if err != nil {
		return model.Appointment{}, err
	}
	for _, a := range own {
		if a.ID != id {
			continue
		}
		removed, err := s.appts.RemoveAppointmentByID(ctx, id)
		if err != nil {
			s.log.Error().Err(err).Str("patient", sess.Username).Msg("cancel failed")
			return model.Appointment{}, err
		}
		if !removed {
			return model.Appointment{}, ErrNotFound
		}
		s.logCancel(a)
		return a, nil
	}
	return model.Appointment{}, ErrNotFound
}

func (s *Service) logCancel(a model.Appointment) {
	s.log.Info().
		Str("patient", a.Patient).
		Str("doctor", a.Doctor).
		Str("date", a.Date).
		Str("time", a.Time).
		Msg("appointment cancelled")
}

func (s *Service) own(ctx context.Context, patient string) ([]model.Appointment, error) {
	all, err := s.appts.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Appointment{}
	for _, a := range all {
		if a.Patient == patient {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Service) PatientAppointments(ctx context.Context, sess model.Session) ([]model.Appointment, error) {
	if !sess.IsPatient() {
		return nil, ErrForbidden
	}
	return s.own(ctx, sess.Username)
}

// DoctorSchedule lists the doctor's records, all of them when date is "".
func (s *Service) DoctorSchedule(ctx context.Context, sess model.Session, date string) ([]model.Appointment, error) {
	if !sess.IsDoctor() {
		return nil, ErrForbidden
	}
	if date != "" {
		if err := validDate(date); err != nil {
			return nil, err
		}
	}
	all, err := s.appts.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Appointment{}
	for _, a := range all {
		if a.Doctor == sess.Username && (date == "" || a.Date == date) {
			out = append(out, a)
		}
	}
	return out, nil
}
