package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opsnorth/secchecklist/internal/checklist/service"
	"github.com/opsnorth/secchecklist/pkg/httpx"
	"github.com/opsnorth/secchecklist/pkg/slogx"
)

type SelectionsHandler struct {
	Selections *service.SelectionService
}

type storeSelectionsRequest struct {
	AppName             string `json:"appName"`
	SelectedType        string `json:"selectedType"`
	SelectedControlArea string `json:"selectedControlArea"`
}

type selectionRecord struct {
	Email       string `json:"email"`
	App         string `json:"app"`
	Type        string `json:"type"`
	ControlArea string `json:"control_area"`
}

func (h *SelectionsHandler) HandleStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	email := httpx.EmailFromContext(ctx)

	var req storeSelectionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	err := h.Selections.Upsert(ctx, email, req.AppName, req.SelectedType, req.SelectedControlArea)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			httpx.WriteError(w, http.StatusBadRequest, "Missing fields")
			return
		}
		log.Error("failed to store selections", "email", email, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "Selections stored successfully",
	})
}

func (h *SelectionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	email := httpx.EmailFromContext(ctx)

	sels, err := h.Selections.ListFor(ctx, email)
	if err != nil {
		// Failures here must not leak internals to the client.
		log.Error("failed to list selections", "email", email, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	records := make([]selectionRecord, 0, len(sels))
	for _, s := range sels {
		records = append(records, selectionRecord{
			Email:       s.Email,
			App:         s.App,
			Type:        s.Type,
			ControlArea: s.ControlArea,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]selectionRecord{
		"selections": records,
	})
}
