package garage

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/servicetrack/backend/internal/middleware"
	"github.com/servicetrack/backend/internal/models"
)

func (h *Handler) CreateServiceRecord(w http.ResponseWriter, r *http.Request) {
	var req models.CreateServiceRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	rec, err := h.svc.CreateServiceRecord(r.Context(), middleware.UserID(r.Context()), req)
	if err != nil {
		respondError(w, err, "Vehicle not found.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":        "Service record created.",
		"service_record": rec,
	})
}

func (h *Handler) ListServiceRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListServiceRecords(r.Context(), middleware.UserID(r.Context()), r.URL.Query().Get("vehicle_id"))
	if err != nil {
		respondError(w, err, "Service record not found.")
		return
	}
	if records == nil {
		records = []models.ServiceRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "OK",
		"service_records": records,
	})
}

func (h *Handler) GetServiceRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetServiceRecord(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "Service record not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "OK",
		"service_record": rec,
	})
}

func (h *Handler) UpdateServiceRecord(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateServiceRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	rec, err := h.svc.UpdateServiceRecord(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err, "Service record not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "Service record updated.",
		"service_record": rec,
	})
}

func (h *Handler) DeleteServiceRecord(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteServiceRecord(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "Service record not found.")
		return
	}
	writeMessage(w, http.StatusOK, "Service record deleted.")
}
