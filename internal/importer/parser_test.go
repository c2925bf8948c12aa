package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseFile_CSV(t *testing.T) {
	input := "nome,telefone\nAna,11 99999-0001\nBia,11 99999-0002\n"

	rows, err := ParseFile("contacts.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []RawRow{
		{"nome": "Ana", "telefone": "11 99999-0001"},
		{"nome": "Bia", "telefone": "11 99999-0002"},
	}, rows)
}

func TestParseFile_CSVExtensionIsCaseInsensitive(t *testing.T) {
	input := "nome,telefone\nAna,111\n"

	rows, err := ParseFile("CONTACTS.CSV", strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParseFile_CSVStripsBOM(t *testing.T) {
	input := "\ufeffnome,telefone\nAna,111\n"

	rows, err := ParseFile("contacts.csv", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0]["nome"])
}

func TestParseFile_CSVRaggedRows(t *testing.T) {
	input := "nome,telefone\nAna,111,extra\nBia\n"

	rows, err := ParseFile("contacts.csv", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, RawRow{"nome": "Ana", "telefone": "111"}, rows[0])
	assert.Equal(t, RawRow{"nome": "Bia"}, rows[1])
}

func TestParseFile_CSVHeaderOnly(t *testing.T) {
	rows, err := ParseFile("contacts.csv", strings.NewReader("nome,telefone\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseFile_EmptyCSV(t *testing.T) {
	_, err := ParseFile("contacts.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseFile_Workbook(t *testing.T) {
	workbook := buildWorkbook(t, [][]string{
		{"nome", "contato"},
		{"Ana", "11 99999-0001"},
		{"Bia", "11 99999-0002"},
	})

	rows, err := ParseFile("contacts.xlsx", bytes.NewReader(workbook))
	require.NoError(t, err)

	assert.Equal(t, []RawRow{
		{"nome": "Ana", "contato": "11 99999-0001"},
		{"nome": "Bia", "contato": "11 99999-0002"},
	}, rows)
}

func TestParseFile_WorkbookReadsOnlyFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"nome", "telefone"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"Ana", "111"}))
	_, err := f.NewSheet("Sheet2")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Sheet2", "A1", &[]string{"nome", "telefone"}))
	require.NoError(t, f.SetSheetRow("Sheet2", "A2", &[]string{"Zoe", "999"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := ParseFile("contacts.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0]["nome"])
}

func TestParseFile_NonCSVExtensionIsTreatedAsWorkbook(t *testing.T) {
	// A text file without a .csv suffix must be rejected by the workbook
	// reader, not silently parsed as CSV.
	_, err := ParseFile("contacts.txt", strings.NewReader("nome,telefone\nAna,111\n"))
	assert.Error(t, err)
}

func buildWorkbook(t *testing.T, records [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &record))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}
