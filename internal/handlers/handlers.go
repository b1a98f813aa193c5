package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tempoapp/scheduling/internal/calendar"
	"github.com/tempoapp/scheduling/pkg/logger"
)

const defaultDurationMinutes = 30

type Handler struct {
	service *calendar.Service
	logger  *logger.Logger
}

func New(service *calendar.Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1/calendar").Subrouter()
	api.HandleFunc("/events", h.ListEvents).Methods(http.MethodGet)
	api.HandleFunc("/events", h.CreateEvent).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}", h.GetEvent).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}", h.UpdateEvent).Methods(http.MethodPut)
	api.HandleFunc("/events/{id}", h.DeleteEvent).Methods(http.MethodDelete)
	api.HandleFunc("/available-slots", h.AvailableSlots).Methods(http.MethodGet)
	api.HandleFunc("/suggest-alternatives", h.SuggestAlternatives).Methods(http.MethodPost)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, map[string]string{
		"status":  "healthy",
		"service": "scheduling",
	}, http.StatusOK)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.service.ListEvents(), http.StatusOK)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var draft calendar.EventDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.errorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := h.service.CreateEvent(draft)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.jsonResponse(w, event, http.StatusCreated)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	event, err := h.service.GetEvent(id)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.jsonResponse(w, event, http.StatusOK)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var draft calendar.EventDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.errorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := h.service.UpdateEvent(id, draft)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.jsonResponse(w, event, http.StatusOK)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteEvent(id); err != nil {
		h.serviceError(w, err)
		return
	}

	h.jsonResponse(w, calendar.DeleteResponse{
		Success: true,
		Message: "Event deleted",
	}, http.StatusOK)
}

func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	duration := defaultDurationMinutes
	if raw := r.URL.Query().Get("duration_minutes"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.errorResponse(w, "duration_minutes must be an integer", http.StatusBadRequest)
			return
		}
		duration = parsed
	}

	slots, err := h.service.AvailableSlots(date, duration)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.jsonResponse(w, slots, http.StatusOK)
}

func (h *Handler) SuggestAlternatives(w http.ResponseWriter, r *http.Request) {
	var req calendar.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = defaultDurationMinutes
	}

	slots, err := h.service.SuggestAlternatives(req.Date, req.DurationMinutes)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.jsonResponse(w, slots, http.StatusOK)
}

// serviceError maps the calendar error taxonomy onto transport status codes:
// validation 400, conflict 409, missing id 404, anything else 500.
func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	var validationErr *calendar.ValidationError
	var conflictErr *calendar.ConflictError

	switch {
	case errors.As(err, &validationErr):
		h.errorResponse(w, validationErr.Error(), http.StatusBadRequest)
	case errors.As(err, &conflictErr):
		h.errorResponse(w, conflictErr.Error(), http.StatusConflict)
	case errors.Is(err, calendar.ErrNotFound):
		h.errorResponse(w, "Event not found", http.StatusNotFound)
	default:
		h.logger.Error("Unhandled service error", map[string]interface{}{
			"error": err.Error(),
		})
		h.errorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
