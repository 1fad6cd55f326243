package garage

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/servicetrack/backend/internal/middleware"
	"github.com/servicetrack/backend/internal/models"
)

func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	rem, err := h.svc.CreateReminder(r.Context(), middleware.UserID(r.Context()), req)
	if err != nil {
		respondError(w, err, "Vehicle not found.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Reminder created.",
		"reminder": rem,
	})
}

func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	// completed is tri-state: absent means both, anything other than
	// true/false is ignored.
	var completed *bool
	switch strings.ToLower(r.URL.Query().Get("completed")) {
	case "true":
		t := true
		completed = &t
	case "false":
		f := false
		completed = &f
	}

	reminders, err := h.svc.ListReminders(r.Context(), middleware.UserID(r.Context()), r.URL.Query().Get("vehicle_id"), completed)
	if err != nil {
		respondError(w, err, "Reminder not found.")
		return
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "OK",
		"reminders": reminders,
	})
}

func (h *Handler) GetReminder(w http.ResponseWriter, r *http.Request) {
	rem, err := h.svc.GetReminder(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "Reminder not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "OK",
		"reminder": rem,
	})
}

func (h *Handler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	rem, err := h.svc.UpdateReminder(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err, "Reminder not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Reminder updated.",
		"reminder": rem,
	})
}

func (h *Handler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteReminder(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "Reminder not found.")
		return
	}
	writeMessage(w, http.StatusOK, "Reminder deleted.")
}
