package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"clinic-booking/internal/booking"
	"clinic-booking/internal/logger"
	"clinic-booking/internal/middleware"
	"clinic-booking/internal/model"
)

type Handler struct {
	svc     *booking.Service
	secret  string
	limiter *middleware.RateLimiter
	router  *mux.Router
	log     zerolog.Logger
}

func New(svc *booking.Service, secret string, rl *middleware.RateLimiter, log zerolog.Logger) *Handler {
	h := &Handler{
		svc:     svc,
		secret:  secret,
		limiter: rl,
		router:  mux.NewRouter(),
		log:     logger.Component(log, "http"),
	}
	h.routes()
	return h
}

func (h *Handler) routes() {
	api := h.router.PathPrefix("/api").Subrouter()

	limited := func(f http.HandlerFunc) http.Handler {
		if h.limiter == nil {
			return f
		}
		return middleware.RateLimit(h.limiter)(f)
	}
	authed := func(f http.HandlerFunc) http.Handler {
		return middleware.Auth(h.secret)(f)
	}

	api.HandleFunc("/health", h.health).Methods(http.MethodGet)
	api.Handle("/register", limited(h.register)).Methods(http.MethodPost)
	api.Handle("/login", limited(h.login)).Methods(http.MethodPost)

	api.Handle("/doctors", authed(h.doctors)).Methods(http.MethodGet)
	api.Handle("/slots", authed(h.slots)).Methods(http.MethodGet)
	api.Handle("/appointments", authed(h.listAppointments)).Methods(http.MethodGet)
	api.Handle("/appointments", authed(h.book)).Methods(http.MethodPost)
	api.Handle("/appointments/at/{position:[0-9]+}", authed(h.cancelAt)).Methods(http.MethodDelete)
	api.Handle("/appointments/{id}", authed(h.cancel)).Methods(http.MethodDelete)
}

func (h *Handler) Router() *mux.Router { return h.router }

// Handler wraps the router with access logging, CORS and panic recovery.
func (h *Handler) Handler(origins []string) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)
	return handlers.CombinedLoggingHandler(h.log,
		handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(cors(h.router)))
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (h *Handler) respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Status: status, Response: data}); err != nil {
		h.log.Error().Err(err).Msg("encode response")
	}
}

// fail maps service errors onto status codes; anything unknown is a 500
// with a generic message.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrFieldsRequired),
		errors.Is(err, booking.ErrInvalidRole),
		errors.Is(err, booking.ErrInvalidDate),
		errors.Is(err, booking.ErrInvalidTime),
		errors.Is(err, booking.ErrInvalidField):
		h.respond(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrLoginFailed), errors.Is(err, booking.ErrNoAccounts):
		h.respond(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, booking.ErrForbidden):
		h.respond(w, http.StatusForbidden, err.Error())
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, booking.ErrInvalidSelection):
		h.respond(w, http.StatusNotFound, "not found")
	case errors.Is(err, booking.ErrSlotTaken):
		h.respond(w, http.StatusConflict, err.Error())
	default:
		h.log.Error().Err(err).Msg("request failed")
		h.respond(w, http.StatusInternalServerError, "internal error")
	}
}

func session(r *http.Request) model.Session {
	s, _ := middleware.SessionFrom(r.Context())
	return s
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
