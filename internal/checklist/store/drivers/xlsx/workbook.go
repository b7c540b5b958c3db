// Package xlsx implements the store contract on top of a single multi-sheet
// workbook file. The file doubles as the read-only reference catalog and the
// mutable user-data store; every mutation is a load-modify-rewrite of one
// sheet, serialized through a per-workbook mutex so at most one rewrite is
// in flight at a time.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/opsnorth/secchecklist/internal/checklist/domain"
	"github.com/opsnorth/secchecklist/internal/checklist/store"
)

// Sheet names within the backing workbook. Controls and ApplicationName are
// provisioned out-of-band; users and user_selections are created on first write.
const (
	SheetControls     = "Controls"
	SheetApplications = "ApplicationName"
	SheetAccounts     = "users"
	SheetSelections   = "user_selections"
)

// Column headers. The reference sheet headers match the provisioned
// workbook verbatim, long names included.
const (
	ColSecurityLevel = "Security Level"
	ColLevel         = "Level"
	ColControlArea   = "Cloud Adoption Framework (CAF) capability"
	ColLayer2        = "Layer 2 Controls (Generic)"
	ColControl       = "Controls"
	ColSubControl    = "AWS-Sub-Controls"
	ColAppName       = "App Name"
)

var (
	accountColumns   = []string{"email", "password"}
	selectionColumns = []string{"email", "app", "type", "control_area"}
)

// Workbook owns the backing file. The mutex serializes every
// load-modify-rewrite cycle across all sheets.
type Workbook struct {
	path string
	mu   sync.Mutex
}

// NewStore opens a store over the workbook at path. The file itself must
// exist (the reference sheets are provisioned out-of-band); the mutable
// sheets need not.
func NewStore(path string) (store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("xlsx: stat workbook: %w", err)
	}
	return &Workbook{path: path}, nil
}

func (w *Workbook) Accounts() store.Accounts     { return &accountsRepo{w: w} }
func (w *Workbook) Selections() store.Selections { return &selectionsRepo{w: w} }

func (w *Workbook) Ping(ctx context.Context) error {
	if _, err := os.Stat(w.path); err != nil {
		return fmt.Errorf("xlsx: workbook unreachable: %w", err)
	}
	return nil
}

func (w *Workbook) Close() error { return nil }

// LoadTable returns the named sheet verbatim, or an empty table with exactly
// defaultColumns when the sheet does not exist. Absence is a normal first-run
// state, never an error; an unreadable file is.
func (w *Workbook) LoadTable(name string, defaultColumns []string) (store.Table, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadTable(name, defaultColumns)
}

// RewriteTable replaces the named sheet's contents while leaving every other
// sheet untouched. The workbook is written to a temp file and renamed into
// place so a concurrent reader never observes a partial file.
func (w *Workbook) RewriteTable(name string, t store.Table) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rewriteTable(name, t)
}

// loadTable is LoadTable without the lock; callers must hold w.mu.
func (w *Workbook) loadTable(name string, defaultColumns []string) (store.Table, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return store.Table{}, fmt.Errorf("xlsx: open workbook: %w", err)
	}
	defer f.Close()

	return readSheet(f, name, defaultColumns)
}

// rewriteTable is RewriteTable without the lock; callers must hold w.mu.
func (w *Workbook) rewriteTable(name string, t store.Table) error {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("xlsx: open workbook: %w", err)
	}
	defer f.Close()

	// Replace the sheet wholesale. Deleting and recreating is simpler than
	// clearing stale rows left over from a previously longer table.
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return fmt.Errorf("xlsx: sheet index %q: %w", name, err)
	}
	if idx >= 0 {
		if err := f.DeleteSheet(name); err != nil {
			return fmt.Errorf("xlsx: delete sheet %q: %w", name, err)
		}
	}
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("xlsx: create sheet %q: %w", name, err)
	}

	if err := writeRow(f, name, 1, t.Columns); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := writeRow(f, name, i+2, row); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), ".checklist-*.xlsx")
	if err != nil {
		return fmt.Errorf("xlsx: create temp workbook: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	if err := f.SaveAs(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("xlsx: save workbook: %w", err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("xlsx: replace workbook: %w", err)
	}

	return nil
}

// Catalog loads the two reference sheets. Unlike the mutable sheets, their
// absence means the workbook was never provisioned, so it fails loudly.
func (w *Workbook) Catalog() (domain.Catalog, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("xlsx: open workbook: %w", err)
	}
	defer f.Close()

	controls, err := requireSheet(f, SheetControls)
	if err != nil {
		return domain.Catalog{}, err
	}
	apps, err := requireSheet(f, SheetApplications)
	if err != nil {
		return domain.Catalog{}, err
	}

	catalog := domain.Catalog{}

	secIdx, err := columnIndexes(controls, ColSecurityLevel, ColLevel, ColControlArea, ColLayer2, ColControl, ColSubControl)
	if err != nil {
		return domain.Catalog{}, err
	}
	for _, row := range controls.Rows {
		catalog.Controls = append(catalog.Controls, domain.ControlRow{
			SecurityLevel: row[secIdx[0]],
			Level:         row[secIdx[1]],
			ControlArea:   row[secIdx[2]],
			Layer2Control: row[secIdx[3]],
			Control:       row[secIdx[4]],
			SubControl:    row[secIdx[5]],
		})
	}

	appIdx, err := columnIndexes(apps, ColAppName)
	if err != nil {
		return domain.Catalog{}, err
	}
	for _, row := range apps.Rows {
		catalog.Applications = append(catalog.Applications, row[appIdx[0]])
	}

	return catalog, nil
}

func requireSheet(f *excelize.File, name string) (store.Table, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return store.Table{}, fmt.Errorf("xlsx: sheet index %q: %w", name, err)
	}
	if idx < 0 {
		return store.Table{}, fmt.Errorf("xlsx: reference sheet %q missing from workbook", name)
	}
	return readSheet(f, name, nil)
}

func readSheet(f *excelize.File, name string, defaultColumns []string) (store.Table, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return store.Table{}, fmt.Errorf("xlsx: sheet index %q: %w", name, err)
	}
	if idx < 0 {
		// First run: the sheet is created by the first rewrite.
		return store.Table{Columns: slices.Clone(defaultColumns)}, nil
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return store.Table{}, fmt.Errorf("xlsx: read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return store.Table{Columns: slices.Clone(defaultColumns)}, nil
	}

	t := store.Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		// GetRows drops trailing empty cells; keep rows rectangular.
		for len(row) < len(t.Columns) {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("xlsx: cell name: %w", err)
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: write row %d of %q: %w", rowNum, sheet, err)
	}
	return nil
}

// columnIndexes resolves header names to positions, failing loudly when the
// sheet does not carry an expected column.
func columnIndexes(t store.Table, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("xlsx: column %q missing", name)
		}
		out[i] = idx
	}
	return out, nil
}
