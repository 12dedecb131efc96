// Package ingest turns a raw uploaded file buffer into a rectangular grid of
// cells. Container format and text encoding are detected from content, never
// from the file name.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Grid is an ordered sequence of rows; row 0 is the header row. Rows may be
// ragged: short rows are tolerated everywhere downstream.
type Grid struct {
	Rows [][]Cell
}

var (
	ErrEmptyFile = errors.New("ingest: file is empty")
	ErrNoRows    = errors.New("ingest: no non-empty rows")
)

// zipMagic opens every XLSX container (they are ZIP archives).
var zipMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// utf8BOM is stripped before decoding UTF-8 text.
var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Read parses a raw file buffer into a Grid. XLSX containers are detected by
// ZIP magic; everything else is treated as character-delimited text, decoded
// as UTF-8 first with EUC-KR and Windows-1252 fallbacks.
func Read(buf []byte) (*Grid, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyFile
	}
	if bytes.HasPrefix(buf, zipMagic) {
		return readWorkbook(buf)
	}
	return readDelimited(buf)
}

// Headers returns the trimmed text of the header row.
func (g *Grid) Headers() []string {
	if len(g.Rows) == 0 {
		return nil
	}
	headers := make([]string, len(g.Rows[0]))
	for i, c := range g.Rows[0] {
		headers[i] = c.Trimmed()
	}
	return headers
}

// DropHeader discards the current header row, promoting the next row. Fails
// when only one row remains.
func (g *Grid) DropHeader() error {
	if len(g.Rows) <= 1 {
		return errors.New("ingest: cannot drop the last remaining row")
	}
	g.Rows = g.Rows[1:]
	return nil
}

func readDelimited(buf []byte) (*Grid, error) {
	text, err := decodeText(buf)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = sniffDelimiter(text)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: reading delimited text: %w", err)
	}

	grid := &Grid{}
	for _, rec := range records {
		row := make([]Cell, len(rec))
		empty := true
		for i, field := range rec {
			row[i] = TextCell(field)
			if strings.TrimSpace(field) != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		grid.Rows = append(grid.Rows, row)
	}
	if len(grid.Rows) == 0 {
		return nil, ErrNoRows
	}
	return grid, nil
}

func readWorkbook(buf []byte) (*Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("ingest: opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("ingest: workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("ingest: reading sheet %q: %w", sheet, err)
	}

	grid := &Grid{}
	for _, rec := range rows {
		empty := true
		row := make([]Cell, len(rec))
		for i, field := range rec {
			row[i] = TextCell(field)
			if strings.TrimSpace(field) != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		grid.Rows = append(grid.Rows, row)
	}
	if len(grid.Rows) == 0 {
		return nil, ErrNoRows
	}
	return grid, nil
}

// candidateEncodings is the decode attempt order for non-UTF-8 text. Korean
// bank exports commonly ship as EUC-KR/CP949; Windows-1252 covers most
// western legacy exports.
var candidateEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"euc-kr", korean.EUCKR},
	{"windows-1252", charmap.Windows1252},
}

func decodeText(buf []byte) (string, error) {
	raw := bytes.TrimPrefix(buf, utf8BOM)

	if bytes.HasPrefix(raw, []byte{0xff, 0xfe}) || bytes.HasPrefix(raw, []byte{0xfe, 0xff}) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, raw)
		if err == nil && utf8.Valid(out) {
			return string(out), nil
		}
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	tried := []string{"utf-8"}
	for _, cand := range candidateEncodings {
		out, _, err := transform.Bytes(cand.enc.NewDecoder(), raw)
		// The decoders substitute U+FFFD for bytes outside the charset;
		// treat any substitution as a failed attempt.
		if err == nil && !bytes.ContainsRune(out, utf8.RuneError) {
			return string(out), nil
		}
		tried = append(tried, cand.name)
	}
	return "", fmt.Errorf("ingest: undecodable text, tried %s", strings.Join(tried, ", "))
}

// sniffDelimiter picks the delimiter that occurs most often in the first
// non-empty line. Comma wins ties.
func sniffDelimiter(text string) rune {
	line := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	best, bestCount := ',', strings.Count(line, ",")
	for _, cand := range []rune{';', '\t'} {
		if n := strings.Count(line, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}
