package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vancr/backend/internal/repository"
	"github.com/vancr/backend/internal/service"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	accountService service.AccountService
}

// NewAuthHandler creates an AuthHandler with the given service.
func NewAuthHandler(accountService service.AccountService) *AuthHandler {
	return &AuthHandler{accountService: accountService}
}

// signupRequest is the expected JSON body for POST /api/signup.
type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// Signup handles POST /api/signup.
// firstName, lastName, email and password are required; phone is optional.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" ||
		strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	user, err := h.accountService.Signup(r.Context(), service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, repository.ErrDuplicatePhone):
			writeError(w, http.StatusBadRequest, "Phone number already exists")
		case errors.Is(err, repository.ErrDuplicate):
			writeError(w, http.StatusBadRequest, "User already exists")
		default:
			slog.Error("signup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to create account")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":      true,
		"userId":  user.ID,
		"message": "Account created successfully",
	})
}

// loginRequest is the expected JSON body for POST /api/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the JSON body for a successful login.
type loginResponse struct {
	OK          bool   `json:"ok"`
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	AccessLevel string `json:"accessLevel"`
	Message     string `json:"message"`
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password required")
		return
	}

	user, err := h.accountService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrAccountInactive):
			writeError(w, http.StatusForbidden, "Account is inactive")
		default:
			slog.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		OK:          true,
		UserID:      user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		AccessLevel: user.AccessLevel,
		Message:     "Login successful",
	})
}
