package handler

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/auth"
	"clinic-booking/internal/booking"
	"clinic-booking/internal/model"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req booking.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusCreated, u)
}

type loginRequest struct {
	Role     model.Role `json:"role"`
	Username string     `json:"username"`
	Password string     `json:"password"`
}

type loginResponse struct {
	Token    string     `json:"token"`
	Role     model.Role `json:"role"`
	Username string     `json:"username"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.svc.Authenticate(r.Context(), req.Role, req.Username, req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}

	tok, err := auth.MakeToken(sess, h.secret)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, loginResponse{Token: tok, Role: sess.Role, Username: sess.Username})
}
