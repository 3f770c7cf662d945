package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/testhr/llamagate/internal/core"
	"github.com/testhr/llamagate/internal/service/account"
	"github.com/testhr/llamagate/pkg/log"
)

type signupBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordBody struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body signupBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.accounts.Signup(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		s.respondAccountError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"name":    user.Name,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.accounts.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.respondAccountError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"name":    user.Name,
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body forgotPasswordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.accounts.ResetPassword(r.Context(), body.Email, body.NewPassword); err != nil {
		s.respondAccountError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]any{
		"message": "Password updated successfully",
	})
}

func (s *Server) respondAccountError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notAllowed *account.NotAllowedError
		validation *account.ValidationError
	)

	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &notAllowed):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &validation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrUserExists):
		respondError(w, http.StatusConflict, "Email already exists")
	case errors.Is(err, core.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	default:
		log.FromCtx(r.Context()).Error().Err(err).Msg("account operation failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
