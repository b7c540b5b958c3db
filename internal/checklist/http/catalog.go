package http

import (
	"net/http"

	"github.com/opsnorth/secchecklist/internal/checklist/service"
	"github.com/opsnorth/secchecklist/pkg/httpx"
)

// CatalogHandler serves the read-only reference data queries.
type CatalogHandler struct {
	Catalog *service.CatalogService
}

type controlsResponse struct {
	Layer2Controls []string `json:"layer2_controls"`
	AWSControls    []string `json:"aws_controls"`
	AWSSubControls []string `json:"aws_sub_controls"`
}

func (h *CatalogHandler) HandleLevels(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	httpx.WriteJSON(w, http.StatusOK, h.Catalog.Levels(typ))
}

func (h *CatalogHandler) HandleControlAreas(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	httpx.WriteJSON(w, http.StatusOK, h.Catalog.ControlAreas(typ))
}

func (h *CatalogHandler) HandleControls(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	area := r.URL.Query().Get("control_area")

	layer2, controls, subControls := h.Catalog.Controls(typ, area)
	httpx.WriteJSON(w, http.StatusOK, controlsResponse{
		Layer2Controls: layer2,
		AWSControls:    controls,
		AWSSubControls: subControls,
	})
}

func (h *CatalogHandler) HandleApplications(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.Catalog.Applications())
}
