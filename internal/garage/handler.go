package garage

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/servicetrack/backend/internal/middleware"
	"github.com/servicetrack/backend/internal/models"
	"github.com/servicetrack/backend/internal/store"
)

// Handler holds the vehicle, service record, and reminder HTTP handlers.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// respondError maps access-layer errors to boundary status codes.
// notFoundMsg names the resource without revealing whether it exists for
// someone else.
func respondError(w http.ResponseWriter, err error, notFoundMsg string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, notFoundMsg)
	default:
		log.Error().Err(err).Msg("request failed")
		writeMessage(w, http.StatusInternalServerError, "Something went wrong.")
	}
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	v, err := h.svc.CreateVehicle(r.Context(), middleware.UserID(r.Context()), req)
	if err != nil {
		respondError(w, err, "Vehicle not found.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Vehicle created.",
		"vehicle": v,
	})
}

func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.svc.ListVehicles(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err, "Vehicle not found.")
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "OK",
		"vehicles": vehicles,
	})
}

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.GetVehicle(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "Vehicle not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "OK",
		"vehicle": v,
	})
}

func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	v, err := h.svc.UpdateVehicle(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err, "Vehicle not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Vehicle updated.",
		"vehicle": v,
	})
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteVehicle(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "Vehicle not found.")
		return
	}
	writeMessage(w, http.StatusOK, "Vehicle deleted.")
}
