package reports

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sha1n/bugloc/internal/domain"
)

// Archive column names.
const (
	ColumnID              = "id"
	ColumnBugID           = "bug_id"
	ColumnSummary         = "summary"
	ColumnDescription     = "description"
	ColumnReportTime      = "report_time"
	ColumnReportTimestamp = "report_timestamp"
	ColumnStatus          = "status"
	ColumnCommit          = "commit"
	ColumnCommitTimestamp = "commit_timestamp"
	ColumnFiles           = "files"
)

// ReportTimeLayout is the layout of the report_time column.
const ReportTimeLayout = "2006-01-02 15:04:05"

var (
	// ErrEmptyArchive indicates the archive has no usable report.
	ErrEmptyArchive = errors.New("report archive contains no reports")

	// ErrMissingColumn indicates a required archive column is absent.
	ErrMissingColumn = errors.New("report archive is missing a required column")
)

// ArchiveOptions control how fixed-file paths are read.
type ArchiveOptions struct {
	// PathPrefix is stripped from every fixed file; files without it are
	// dropped. Empty keeps all files.
	PathPrefix string

	// Extensions keeps fixed files with one of these extensions (".java").
	// Empty keeps all files.
	Extensions []string
}

// ArchiveStats counts skipped archive rows.
type ArchiveStats struct {
	Rows       int
	Reports    int
	Malformed  int
	Duplicates int
}

// LoadArchive reads a tab separated report archive from path.
func LoadArchive(path string, opts ArchiveOptions) ([]*domain.BugReport, ArchiveStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ArchiveStats{}, fmt.Errorf("failed to open report archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseArchive(f, opts)
}

// ParseArchive reads a tab separated report archive with a header row.
// Reports are returned in archive order. Rows with an unparseable time or a
// duplicate id are skipped and counted.
func ParseArchive(r io.Reader, opts ArchiveOptions) ([]*domain.BugReport, ArchiveStats, error) {
	var stats ArchiveStats

	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, ErrEmptyArchive
		}
		return nil, stats, fmt.Errorf("failed to read archive header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{ColumnID, ColumnFiles} {
		if _, ok := columns[required]; !ok {
			return nil, stats, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	_, hasTime := columns[ColumnReportTime]
	_, hasTimestamp := columns[ColumnReportTimestamp]
	if !hasTime && !hasTimestamp {
		return nil, stats, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnReportTime)
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	seen := make(map[string]struct{})
	var reports []*domain.BugReport
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("failed to read archive row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++

		id := strings.TrimSpace(field(record, ColumnID))
		reportTime, err := parseReportTime(field(record, ColumnReportTime), field(record, ColumnReportTimestamp))
		if id == "" || err != nil {
			slog.Warn("Skipping malformed report", "row", stats.Rows, "id", id, "error", err)
			stats.Malformed++
			continue
		}
		if _, dup := seen[id]; dup {
			slog.Warn("Skipping duplicate report", "row", stats.Rows, "id", id)
			stats.Duplicates++
			continue
		}
		seen[id] = struct{}{}

		summary := field(record, ColumnSummary)
		description := field(record, ColumnDescription)
		commitTime, _ := parseUnix(field(record, ColumnCommitTimestamp))

		reports = append(reports, &domain.BugReport{
			ID:          id,
			BugID:       strings.TrimSpace(field(record, ColumnBugID)),
			Summary:     summary,
			Description: description,
			ReportTime:  reportTime,
			Status:      strings.TrimSpace(field(record, ColumnStatus)),
			Commit:      strings.TrimSpace(field(record, ColumnCommit)),
			CommitTime:  commitTime,
			RawText:     summary + description,
			FixedFiles:  parseFixedFiles(field(record, ColumnFiles), opts),
		})
	}

	stats.Reports = len(reports)
	if len(reports) == 0 {
		return nil, stats, ErrEmptyArchive
	}
	return reports, stats, nil
}

func parseReportTime(reportTime, timestamp string) (time.Time, error) {
	if s := strings.TrimSpace(reportTime); s != "" {
		return time.ParseInLocation(ReportTimeLayout, s, time.UTC)
	}
	return parseUnix(timestamp)
}

func parseUnix(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return time.Unix(sec, 0).UTC(), nil
}

// parseFixedFiles splits the whitespace separated file list, applies the
// prefix and extension rules, normalizes and de-duplicates.
func parseFixedFiles(s string, opts ArchiveOptions) []string {
	var files []string
	seen := make(map[string]struct{})
	for _, f := range strings.Fields(s) {
		if opts.PathPrefix != "" {
			rest, ok := strings.CutPrefix(f, opts.PathPrefix)
			if !ok {
				continue
			}
			f = rest
		}
		if !hasExtension(f, opts.Extensions) {
			continue
		}
		f = domain.NormalizePath(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		files = append(files, f)
	}
	return files
}

func hasExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	lower := strings.ToLower(path)
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
