package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opsnorth/secchecklist/internal/checklist/service"
	"github.com/opsnorth/secchecklist/pkg/httpx"
	"github.com/opsnorth/secchecklist/pkg/slogx"
)

type SignupHandler struct {
	Accounts *service.AccountService
}

type signupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type tokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	token, err := h.Accounts.Register(ctx, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			httpx.WriteError(w, http.StatusBadRequest, "Passwords do not match")
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusBadRequest, "Email is already registered")
		default:
			log.Error("signup failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, tokenResponse{
		Message: "User registered successfully",
		Token:   token,
	})
}
