package service_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/opsnorth/secchecklist/internal/checklist/store"
	"github.com/opsnorth/secchecklist/internal/checklist/store/drivers/xlsx"
	"github.com/opsnorth/secchecklist/pkg/jwtx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(xlsx.SheetControls)
	require.NoError(t, err)
	rows := [][]any{
		{xlsx.ColSecurityLevel, xlsx.ColLevel, xlsx.ColControlArea, xlsx.ColLayer2, xlsx.ColControl, xlsx.ColSubControl},
		{"High", "L1", "Network", "Segmentation", "SG", "SG-1"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(xlsx.SheetControls, cell, &row))
	}

	_, err = f.NewSheet(xlsx.SheetApplications)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(xlsx.SheetApplications, "A1", &[]any{xlsx.ColAppName}))
	require.NoError(t, f.SetSheetRow(xlsx.SheetApplications, "A2", &[]any{"Foo"}))

	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "checklist.xlsx")
	require.NoError(t, f.SaveAs(path))

	st, err := xlsx.NewStore(path)
	require.NoError(t, err)
	return st
}

func newTestSigner() *jwtx.Signer {
	return &jwtx.Signer{
		Secret: []byte("test-secret"),
		Issuer: "checklist",
		TTL:    time.Hour,
	}
}
