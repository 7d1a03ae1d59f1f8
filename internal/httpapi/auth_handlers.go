package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"custodia.org/internal/audit"
	"custodia.org/internal/auth"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Message string     `json:"message"`
	User    *auth.User `json:"user"`
}

type loginResponse struct {
	Message   string     `json:"message"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *auth.User `json:"user"`
}

// User-facing strings stay in the product's locale.
const (
	msgMissingCredentials = "Email e senha válidos são obrigatórios."
	msgEmailTaken         = "Este email já está cadastrado."
	msgInvalidCredentials = "Credenciais inválidas."
	msgRegistered         = "Usuário registrado com sucesso."
	msgLoggedIn           = "Login realizado com sucesso."
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, msgMissingCredentials)
		return
	}

	user, err := a.auth.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAlreadyExists):
			writeError(w, r, http.StatusConflict, msgEmailTaken)
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, msgMissingCredentials)
		default:
			internalError(w, r)
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})

	writeJSON(w, http.StatusCreated, registerResponse{
		Message: msgRegistered,
		User:    user,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, msgMissingCredentials)
		return
	}

	token, expiresAt, user, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// Same response for unknown email and wrong password.
			writeError(w, r, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		internalError(w, r)
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"user_id": user.ID,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Message:   msgLoggedIn,
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}
