package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"First Name", "Phone", "Lease Price"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Ada", "08012345678", 1500000}))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "Bola, Jr."))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestToCSV(t *testing.T) {
	var out bytes.Buffer
	n, err := ToCSV(testWorkbook(t), &out)
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, "First Name,Phone,Lease Price\n"+
		"Ada,08012345678,1500000\n"+
		"\"Bola, Jr.\",,\n", out.String())
}

func TestToCSV_NotAWorkbook(t *testing.T) {
	_, err := ToCSV([]byte("<html>oops</html>"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	workbook := testWorkbook(t)
	dir := t.TempDir()

	t.Run("xlsx is written unchanged", func(t *testing.T) {
		path := filepath.Join(dir, "out", FileName("landlords", FormatXLSX))
		n, err := Save(workbook, path, FormatXLSX)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, workbook, got)
	})

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, FileName("tenants", FormatCSV))
		n, err := Save(workbook, path, FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(got), "Ada,08012345678,1500000")
	})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}
