package xlsx

import (
	"context"
	"strings"

	"github.com/opsnorth/secchecklist/internal/checklist/domain"
	"github.com/opsnorth/secchecklist/internal/checklist/store"
)

type accountsRepo struct {
	w *Workbook
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()

	t, err := r.w.loadTable(SheetAccounts, accountColumns)
	if err != nil {
		return domain.Account{}, err
	}
	idx, err := columnIndexes(t, "email", "password")
	if err != nil {
		return domain.Account{}, err
	}

	for _, row := range t.Rows {
		if strings.EqualFold(row[idx[0]], email) {
			return domain.Account{Email: row[idx[0]], PasswordHash: row[idx[1]]}, nil
		}
	}
	return domain.Account{}, store.ErrNotFound
}

// Create holds the workbook lock across the whole read-modify-rewrite so a
// racing signup for the same email cannot slip in a second row.
func (r *accountsRepo) Create(ctx context.Context, account domain.Account) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()

	t, err := r.w.loadTable(SheetAccounts, accountColumns)
	if err != nil {
		return err
	}
	idx, err := columnIndexes(t, "email", "password")
	if err != nil {
		return err
	}

	for _, row := range t.Rows {
		if strings.EqualFold(row[idx[0]], account.Email) {
			return store.ErrAlreadyExists
		}
	}

	row := make([]string, len(t.Columns))
	row[idx[0]] = account.Email
	row[idx[1]] = account.PasswordHash
	t.Rows = append(t.Rows, row)

	return r.w.rewriteTable(SheetAccounts, t)
}
