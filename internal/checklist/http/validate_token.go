package http

import (
	"net/http"

	"github.com/opsnorth/secchecklist/pkg/httpx"
)

// ValidateTokenHandler lets the frontend confirm a stored token is still
// usable. The authn middleware has already verified it by the time we get
// here, so this just echoes the identity back.
type ValidateTokenHandler struct{}

func (h *ValidateTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	email := httpx.EmailFromContext(r.Context())

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"email":   email,
		"message": "Token is valid",
	})
}
