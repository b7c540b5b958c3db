package service

import (
	"strings"

	"github.com/opsnorth/secchecklist/internal/checklist/domain"
)

// CatalogService answers read-only queries over the reference tables. The
// catalog is loaded once at startup and never mutated, so no locking here.
type CatalogService struct {
	Catalog domain.Catalog
}

// Levels returns the distinct level labels for the classification type,
// matched case-insensitively, in first-seen order.
func (s *CatalogService) Levels(typ string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, row := range s.Catalog.Controls {
		if !strings.EqualFold(row.SecurityLevel, typ) {
			continue
		}
		if _, ok := seen[row.Level]; ok {
			continue
		}
		seen[row.Level] = struct{}{}
		out = append(out, row.Level)
	}
	return out
}

// ControlAreas returns the distinct control-area labels for the
// classification type, matched case-insensitively, in first-seen order.
func (s *CatalogService) ControlAreas(typ string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, row := range s.Catalog.Controls {
		if !strings.EqualFold(row.SecurityLevel, typ) {
			continue
		}
		if _, ok := seen[row.ControlArea]; ok {
			continue
		}
		seen[row.ControlArea] = struct{}{}
		out = append(out, row.ControlArea)
	}
	return out
}

// Controls returns the three parallel control lists for the classification
// type (case-insensitive) and control area (exact match). Rows with any of
// the three control fields empty are excluded.
func (s *CatalogService) Controls(typ, controlArea string) (layer2, controls, subControls []string) {
	layer2, controls, subControls = []string{}, []string{}, []string{}
	for _, row := range s.Catalog.Controls {
		if !strings.EqualFold(row.SecurityLevel, typ) || row.ControlArea != controlArea {
			continue
		}
		if row.Layer2Control == "" || row.Control == "" || row.SubControl == "" {
			continue
		}
		layer2 = append(layer2, row.Layer2Control)
		controls = append(controls, row.Control)
		subControls = append(subControls, row.SubControl)
	}
	return layer2, controls, subControls
}

// Applications returns the application names in stored order.
func (s *CatalogService) Applications() []string {
	out := make([]string, len(s.Catalog.Applications))
	copy(out, s.Catalog.Applications)
	return out
}
