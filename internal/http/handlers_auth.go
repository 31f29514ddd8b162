package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"budgetwise/internal/auth"
	"budgetwise/internal/core"
	applog "budgetwise/internal/log"
	"budgetwise/internal/storage"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Currency string `json:"currency"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister creates an account. No token is issued here; the client
// logs in afterwards.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := core.ValidateRegistration(req.Name, req.Email, req.Password); err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	existing, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "Server error", err)
		return
	}
	if existing != nil {
		s.respondError(w, r, http.StatusBadRequest, "User already exists", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "Server error", err)
		return
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	user := &core.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Currency:     currency,
	}
	if err := s.users.CreateUser(r.Context(), user); err != nil {
		// A concurrent registration can still win the unique constraint race.
		if errors.Is(err, storage.ErrEmailTaken) {
			s.respondError(w, r, http.StatusBadRequest, "User already exists", nil)
			return
		}
		s.respondError(w, r, http.StatusInternalServerError, "Server error", err)
		return
	}

	slog.InfoContext(r.Context(), "User registered",
		applog.FieldUserID, user.ID, "email", user.Email)

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"user":    map[string]any{"id": user.ID, "name": user.Name},
		"message": "User created successfully",
	})
}

// handleLogin verifies credentials and issues a bearer token. An unknown
// email and a wrong password produce identical responses.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		s.respondError(w, r, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "Server error", err)
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.respondError(w, r, http.StatusBadRequest, "Invalid credentials", nil)
		return
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "Server error", err)
		return
	}

	slog.InfoContext(r.Context(), "User logged in", applog.FieldUserID, user.ID)

	s.respondJSON(w, http.StatusOK, map[string]any{
		"token":   token,
		"user":    user.Public(),
		"message": "User logged in successfully",
	})
}
