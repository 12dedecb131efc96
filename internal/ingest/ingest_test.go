package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

func TestReadCSV(t *testing.T) {
	buf := []byte("Date,Description,Amount\n2024-04-03,Coffee,-4500\n2024-04-04,Salary,2000000\n")

	grid, err := Read(buf)
	require.NoError(t, err)
	require.Len(t, grid.Rows, 3)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, grid.Headers())
	assert.Equal(t, "Coffee", grid.Rows[1][1].Text)
	assert.Equal(t, "2000000", grid.Rows[2][2].Text)
}

func TestReadCSVWithBOM(t *testing.T) {
	buf := append([]byte{0xef, 0xbb, 0xbf}, []byte("Date,Memo\n2024-01-01,ok\n")...)

	grid, err := Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Memo"}, grid.Headers())
}

func TestReadRaggedRows(t *testing.T) {
	buf := []byte("Date,Description,Amount,Balance\n2024-04-03,Coffee,-4500\n2024-04-04,Salary\n")

	grid, err := Read(buf)
	require.NoError(t, err)
	require.Len(t, grid.Rows, 3)
	assert.Len(t, grid.Rows[1], 3)
	assert.Len(t, grid.Rows[2], 2)
}

func TestReadSemicolonDelimited(t *testing.T) {
	buf := []byte("Date;Description;Amount\n2024-04-03;Kaffee; -12,50\n")

	grid, err := Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, grid.Headers())
	assert.Equal(t, "Kaffee", grid.Rows[1][1].Text)
}

func TestReadTabDelimited(t *testing.T) {
	buf := []byte("Date\tDescription\tAmount\n2024-04-03\tCoffee\t-4500\n")

	grid, err := Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "Coffee", grid.Rows[1][1].Text)
}

func TestReadEUCKR(t *testing.T) {
	// Simulate a Korean bank export saved in EUC-KR.
	utf8Text := "날짜,내용,금액\n2024-04-03,스타벅스 강남점,-4500\n"
	encoded, _, err := transform.String(korean.EUCKR.NewEncoder(), utf8Text)
	require.NoError(t, err)

	grid, err := Read([]byte(encoded))
	require.NoError(t, err)
	require.Len(t, grid.Rows, 2)
	assert.Equal(t, []string{"날짜", "내용", "금액"}, grid.Headers())
	assert.Equal(t, "스타벅스 강남점", grid.Rows[1][1].Text)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Date", "Description", "Amount"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"2024-04-03", "Coffee", -4500}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"2024-04-04", "Salary", 2000000}))

	var out []byte
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	out = buf.Bytes()

	grid, err := Read(out)
	require.NoError(t, err)
	require.Len(t, grid.Rows, 3)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, grid.Headers())
	assert.Equal(t, "Coffee", grid.Rows[1][1].Text)
}

func TestReadEmptyBuffer(t *testing.T) {
	_, err := Read(nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadBlankLinesDropped(t *testing.T) {
	buf := []byte("Date,Memo\n\n2024-01-01,ok\n,,\n")

	grid, err := Read(buf)
	require.NoError(t, err)
	require.Len(t, grid.Rows, 2)
}

func TestDropHeader(t *testing.T) {
	grid, err := Read([]byte("junk line,,\nDate,Memo\n2024-01-01,ok\n"))
	require.NoError(t, err)

	require.NoError(t, grid.DropHeader())
	assert.Equal(t, []string{"Date", "Memo"}, grid.Headers())

	require.NoError(t, grid.DropHeader())
	assert.Error(t, grid.DropHeader(), "last row must not be droppable")
}

func TestCellHelpers(t *testing.T) {
	assert.True(t, TextCell("   ").Empty())
	assert.False(t, TextCell(" x ").Empty())
	assert.Equal(t, "x", TextCell(" x ").Trimmed())
}
