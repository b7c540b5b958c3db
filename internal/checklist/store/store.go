package store

import (
	"context"
	"errors"

	"github.com/opsnorth/secchecklist/internal/checklist/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (xlsx today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Accounts() Accounts
	Selections() Selections

	// Catalog loads the read-only reference tables. Call it once at startup;
	// the result is immutable for the process lifetime. A missing reference
	// sheet is a provisioning error and fails loudly.
	Catalog() (domain.Catalog, error)

	// Ping verifies the backing file is still reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Accounts interface {
	// GetByEmail returns the account whose email matches case-insensitively.
	// Returns ErrNotFound when no such account exists.
	GetByEmail(ctx context.Context, email string) (domain.Account, error)

	// Create appends a new account. Returns ErrAlreadyExists when an account
	// with the same email (case-insensitive) is already present.
	Create(ctx context.Context, account domain.Account) error
}

type Selections interface {
	// Upsert stores a selection keyed on (email, app). An existing row for
	// the pair is overwritten in place; otherwise a new row is appended.
	// App matching is case-sensitive.
	Upsert(ctx context.Context, sel domain.Selection) error

	// ListByEmail returns the selections whose email matches exactly, in
	// stored order. No selections is an empty slice, not an error.
	ListByEmail(ctx context.Context, email string) ([]domain.Selection, error)
}

// Table is one named tabular dataset within the backing file: a header row
// plus data rows, all cells as strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
