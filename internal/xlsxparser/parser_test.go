package xlsxparser

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Master_Site"))
	require.NoError(t, f.SetSheetRow("Master_Site", "A1", &[]any{" id13 ", "titre_norm", "date_parution_norm", "price"}))
	require.NoError(t, f.SetSheetRow("Master_Site", "A2", &[]any{9782123456789, "Premier", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 12.5}))
	require.NoError(t, f.SetSheetRow("Master_Site", "A3", &[]any{"9782123456796", "Second"}))

	_, err := f.NewSheet("CONFIG")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("CONFIG", "A1", &[]any{"key", "value"}))

	_, err = f.NewSheet("Empty")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalogue.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadSheet(t *testing.T) {
	wb, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	table, err := wb.ReadSheet("Master_Site")
	require.NoError(t, err)

	assert.Equal(t, "Master_Site", table.Name)
	assert.Equal(t, []string{"id13", "titre_norm", "date_parution_norm", "price"}, table.Headers)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "9782123456789", table.Cell(0, 0))
	assert.Equal(t, "Premier", table.Cell(0, 1))
	assert.Equal(t, "45366", table.Cell(0, 2))
	assert.Equal(t, "12.5", table.Cell(0, 3))

	assert.Equal(t, "Second", table.Cell(1, 1))
	assert.Equal(t, "", table.Cell(1, 3))
}

func TestReadSheetCaseInsensitive(t *testing.T) {
	wb, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	assert.True(t, wb.HasSheet("config"))
	table, err := wb.ReadSheet("config")
	require.NoError(t, err)
	assert.Equal(t, "CONFIG", table.Name)
	assert.Empty(t, table.Rows)
}

func TestReadSheetMissing(t *testing.T) {
	wb, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.ReadSheet("Catalogue")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
	assert.Contains(t, errors.FlattenHints(err), "Master_Site")
}

func TestReadEmptySheet(t *testing.T) {
	wb, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	table, err := wb.ReadSheet("Empty")
	require.NoError(t, err)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestSheetNames(t *testing.T) {
	wb, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Master_Site", "CONFIG", "Empty"}, wb.SheetNames())
}
