package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsnorth/secchecklist/internal/checklist/domain"
	"github.com/opsnorth/secchecklist/internal/checklist/store"
)

var ErrMissingFields = errors.New("missing fields")

type SelectionService struct {
	Store store.Store
}

// Upsert stores the selection for (email, app), overwriting an existing row
// for the pair. All three payload fields are validated before any I/O.
func (s *SelectionService) Upsert(ctx context.Context, email, app, typ, controlArea string) error {
	if app == "" || typ == "" || controlArea == "" {
		return ErrMissingFields
	}

	err := s.Store.Selections().Upsert(ctx, domain.Selection{
		Email:       email,
		App:         app,
		Type:        typ,
		ControlArea: controlArea,
	})
	if err != nil {
		return fmt.Errorf("upsert selection: %w", err)
	}
	return nil
}

// ListFor returns the user's selections in stored order.
func (s *SelectionService) ListFor(ctx context.Context, email string) ([]domain.Selection, error) {
	sels, err := s.Store.Selections().ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	return sels, nil
}
