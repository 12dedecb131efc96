// Package auditlog keeps an append-only CSV record of import runs, so a
// workspace can answer "what did that upload actually do" after the fact.
package auditlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp  time.Time
	BatchID    string
	File       string
	RowsRead   int
	Imported   int
	Rejected   int
	Duplicates int
	Transfers  int
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,batch_id,file,rows_read,imported,rejected,duplicates,transfers"

const (
	numFields     = 8
	logFile       = "logs/import-log.csv"
	colTimestamp  = 0
	colBatchID    = 1
	colFile       = 2
	colRowsRead   = 3
	colImported   = 4
	colRejected   = 5
	colDuplicates = 6
	colTransfers  = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colBatchID] = e.BatchID
	row[colFile] = e.File
	row[colRowsRead] = strconv.Itoa(e.RowsRead)
	row[colImported] = strconv.Itoa(e.Imported)
	row[colRejected] = strconv.Itoa(e.Rejected)
	row[colDuplicates] = strconv.Itoa(e.Duplicates)
	row[colTransfers] = strconv.Itoa(e.Transfers)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	ints := make([]int, 5)
	for i, col := range []int{colRowsRead, colImported, colRejected, colDuplicates, colTransfers} {
		v, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing field %d %q: %w", col, record[col], err)
		}
		ints[i] = v
	}

	return Entry{
		Timestamp:  ts.UTC(),
		BatchID:    record[colBatchID],
		File:       record[colFile],
		RowsRead:   ints[0],
		Imported:   ints[1],
		Rejected:   ints[2],
		Duplicates: ints[3],
		Transfers:  ints[4],
	}, nil
}

// Append adds an entry to <root>/logs/import-log.csv, creating the file with
// a header on first use.
func Append(root string, e Entry) error {
	path := filepath.Join(root, logFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/import-log.csv. A missing log
// reads as empty.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()
	return ReadEntries(f)
}

// ReadEntries parses import-log rows from r, header included.
func ReadEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
