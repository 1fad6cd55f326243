package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/servicetrack/backend/internal/middleware"
	"github.com/servicetrack/backend/internal/models"
	"github.com/servicetrack/backend/internal/store"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	tokens TokenStore
}

func NewHandler(users UserStore, tokens TokenStore) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// bcrypt hash of a throwaway value, verified when the email is unknown so
// that path costs the same as a wrong password.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// Register creates a new account and logs it straight in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    models.TrimToNull(req.FirstName),
		LastName:     models.TrimToNull(req.LastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeMessage(w, http.StatusConflict, "An account with that email already exists.")
			return
		}
		log.Error().Err(err).Msg("register: create user")
		writeMessage(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	token, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Msg("register: issue token")
		writeMessage(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "Registration successful.",
		"access_token": token,
		"user":         user,
	})
}

// Login verifies credentials and issues a fresh token. Unknown emails and
// wrong passwords produce the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	token, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Msg("login: issue token")
		writeMessage(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Login successful.",
		"access_token": token,
		"user":         user,
	})
}

// Logout revokes the presented token, if any.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.BearerToken(r); token != "" {
		if err := h.tokens.Revoke(r.Context(), token); err != nil {
			log.Warn().Err(err).Msg("logout: revoke token")
		}
	}
	writeMessage(w, http.StatusOK, "Logged out.")
}

// Profile returns the authenticated user.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "OK",
		"user":    user,
	})
}

// Update applies a partial profile update. Keys absent from the payload
// are left untouched; empty first/last names clear to null.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found.")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.FirstName.Set {
		user.FirstName = models.TrimToNull(req.FirstName.Get())
	}
	if req.LastName.Set {
		user.LastName = models.TrimToNull(req.LastName.Get())
	}
	if req.Email.Set {
		email := strings.ToLower(strings.TrimSpace(req.Email.Get()))
		if email == "" {
			writeMessage(w, http.StatusBadRequest, "Email cannot be empty.")
			return
		}
		user.Email = email
	}
	if req.Password.Set && req.Password.Get() != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password.Get()), bcrypt.DefaultCost)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Something went wrong.")
			return
		}
		user.PasswordHash = string(hashed)
	}

	user.UpdatedAt = time.Now().UTC()
	if err := h.users.UpdateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeMessage(w, http.StatusConflict, "That email is already in use.")
			return
		}
		log.Error().Err(err).Msg("update profile")
		writeMessage(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated.",
		"user":    user,
	})
}
