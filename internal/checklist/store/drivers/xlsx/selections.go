package xlsx

import (
	"context"

	"github.com/opsnorth/secchecklist/internal/checklist/domain"
)

type selectionsRepo struct {
	w *Workbook
}

func (r *selectionsRepo) Upsert(ctx context.Context, sel domain.Selection) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()

	t, err := r.w.loadTable(SheetSelections, selectionColumns)
	if err != nil {
		return err
	}
	idx, err := columnIndexes(t, "email", "app", "type", "control_area")
	if err != nil {
		return err
	}

	// (email, app) is the natural key; both compared exactly.
	found := false
	for _, row := range t.Rows {
		if row[idx[0]] == sel.Email && row[idx[1]] == sel.App {
			row[idx[2]] = sel.Type
			row[idx[3]] = sel.ControlArea
			found = true
			break
		}
	}
	if !found {
		row := make([]string, len(t.Columns))
		row[idx[0]] = sel.Email
		row[idx[1]] = sel.App
		row[idx[2]] = sel.Type
		row[idx[3]] = sel.ControlArea
		t.Rows = append(t.Rows, row)
	}

	return r.w.rewriteTable(SheetSelections, t)
}

func (r *selectionsRepo) ListByEmail(ctx context.Context, email string) ([]domain.Selection, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()

	t, err := r.w.loadTable(SheetSelections, selectionColumns)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndexes(t, "email", "app", "type", "control_area")
	if err != nil {
		return nil, err
	}

	out := []domain.Selection{}
	for _, row := range t.Rows {
		if row[idx[0]] != email {
			continue
		}
		out = append(out, domain.Selection{
			Email:       row[idx[0]],
			App:         row[idx[1]],
			Type:        row[idx[2]],
			ControlArea: row[idx[3]],
		})
	}
	return out, nil
}
