package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opsnorth/secchecklist/internal/checklist/service"
	"github.com/opsnorth/secchecklist/pkg/httpx"
	"github.com/opsnorth/secchecklist/pkg/slogx"
)

type LoginHandler struct {
	Accounts *service.AccountService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	token, err := h.Accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password produce the same response.
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		Message: "Login successful",
		Token:   token,
	})
}
