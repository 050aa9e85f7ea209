package features

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/sha1n/bugloc/internal/domain"
)

// ErrBadHeader indicates a feature table whose header does not match
// domain.FeatureColumns.
var ErrBadHeader = errors.New("unexpected feature table header")

// WriteTable writes the header and one record per row.
func WriteTable(w io.Writer, rows []domain.FeatureRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.FeatureColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(domain.FeatureColumns))
	for _, r := range rows {
		record[0] = r.ReportID
		record[1] = r.FilePath
		record[2] = formatFloat(r.RVSM)
		record[3] = formatFloat(r.CollabFilter)
		record[4] = formatFloat(r.ClassName)
		record[5] = r.Recency.String()
		record[6] = strconv.Itoa(r.Frequency)
		record[7] = strconv.Itoa(r.Label)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row for report %s: %w", r.ReportID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTable parses a table written by WriteTable.
func ReadTable(r io.Reader) ([]domain.FeatureRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(domain.FeatureColumns)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrBadHeader
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, name := range domain.FeatureColumns {
		if strings.TrimPrefix(header[i], "\ufeff") != name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i, header[i], name)
		}
	}

	var rows []domain.FeatureRow
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(record []string) (domain.FeatureRow, error) {
	row := domain.FeatureRow{ReportID: record[0], FilePath: record[1]}

	var err error
	if row.RVSM, err = strconv.ParseFloat(record[2], 64); err != nil {
		return row, fmt.Errorf("invalid %s: %w", domain.ColumnRVSM, err)
	}
	if row.CollabFilter, err = strconv.ParseFloat(record[3], 64); err != nil {
		return row, fmt.Errorf("invalid %s: %w", domain.ColumnCollabFilter, err)
	}
	if row.ClassName, err = strconv.ParseFloat(record[4], 64); err != nil {
		return row, fmt.Errorf("invalid %s: %w", domain.ColumnClassName, err)
	}
	if row.Recency, err = domain.ParseRecency(record[5]); err != nil {
		return row, fmt.Errorf("invalid %s: %w", domain.ColumnBugRecency, err)
	}
	if row.Frequency, err = strconv.Atoi(record[6]); err != nil {
		return row, fmt.Errorf("invalid %s: %w", domain.ColumnBugFrequency, err)
	}
	if row.Label, err = strconv.Atoi(record[7]); err != nil {
		return row, fmt.Errorf("invalid %s: %w", domain.ColumnMatch, err)
	}
	if row.Label != 0 && row.Label != 1 {
		return row, fmt.Errorf("invalid %s: %d", domain.ColumnMatch, row.Label)
	}
	return row, nil
}

// SaveTable replaces the table at path under the table lock.
func SaveTable(path string, rows []domain.FeatureRow) error {
	lock := NewTableLock(path)
	defer func() { _ = lock.Unlock() }()
	return lock.Save(rows)
}

// Save replaces the locked table, acquiring the lock first if it is not
// held. The rows are written to a temporary file that is renamed over the
// target. Paths ending in ".gz" are gzip compressed.
func (l *TableLock) Save(rows []domain.FeatureRow) error {
	if err := l.TryLock(); err != nil {
		return err
	}

	path := l.table
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create table directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := writeTableFile(tempPath, compressed(path), rows); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename table file: %w", err)
	}
	return nil
}

func writeTableFile(path string, gz bool, rows []domain.FeatureRow) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close table file: %w", closeErr)
		}
	}()

	if !gz {
		return WriteTable(f, rows)
	}

	zw := gzip.NewWriter(f)
	if err := WriteTable(zw, rows); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return nil
}

// LoadTable reads the table at path, decompressing ".gz" files.
func LoadTable(path string) ([]domain.FeatureRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feature table: %w", err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if compressed(path) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer func() { _ = zr.Close() }()
		r = zr
	}

	rows, err := ReadTable(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature table %s: %w", path, err)
	}
	return rows, nil
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
