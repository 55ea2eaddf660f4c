package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"clinic-booking/internal/model"
)

type doctorsResponse struct {
	Doctors []model.UserAccount `json:"doctors"`
}

func (h *Handler) doctors(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Doctors(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, doctorsResponse{Doctors: docs})
}

type slotsResponse struct {
	Date   string   `json:"date"`
	Doctor string   `json:"doctor"`
	Slots  []string `json:"slots"`
}

func (h *Handler) slots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, doctor := q.Get("date"), q.Get("doctor")
	if date == "" {
		h.respond(w, http.StatusBadRequest, "date required")
		return
	}

	open, err := h.svc.AvailableSlots(r.Context(), doctor, date)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, slotsResponse{Date: date, Doctor: doctor, Slots: open})
}

type appointmentsResponse struct {
	Appointments []model.Appointment `json:"appointments"`
}

// patients get their own records, doctors their schedule
func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	sess := session(r)

	var (
		list []model.Appointment
		err  error
	)
	if sess.IsDoctor() {
		list, err = h.svc.DoctorSchedule(r.Context(), sess, r.URL.Query().Get("date"))
	} else {
		list, err = h.svc.PatientAppointments(r.Context(), sess)
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, appointmentsResponse{Appointments: list})
}

type bookRequest struct {
	Doctor string `json:"doctor"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

func (h *Handler) book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := h.svc.Book(r.Context(), session(r), req.Doctor, req.Date, req.Time)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusCreated, appt)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	appt, err := h.svc.Cancel(r.Context(), session(r), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, appt)
}

func (h *Handler) cancelAt(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(mux.Vars(r)["position"])
	if err != nil {
		h.respond(w, http.StatusBadRequest, "invalid position")
		return
	}

	appt, err := h.svc.CancelAt(r.Context(), session(r), pos)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, appt)
}
