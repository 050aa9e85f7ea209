package domain

import "time"

// BugReport is a fixed bug taken from the report archive.
// Reports are immutable once loaded.
type BugReport struct {
	ID          string    `json:"id"`
	BugID       string    `json:"bug_id,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Description string    `json:"description,omitempty"`
	ReportTime  time.Time `json:"report_time"`
	Status      string    `json:"status,omitempty"`
	Commit      string    `json:"commit"`
	CommitTime  time.Time `json:"commit_time,omitempty"`

	// RawText is the summary and description concatenation used for similarity.
	RawText string `json:"raw_text"`

	// FixedFiles holds the normalized paths touched by the fixing commit.
	FixedFiles []string `json:"fixed_files"`
}

// Fixes reports whether the fixing commit touched the given normalized path.
func (r *BugReport) Fixes(path string) bool {
	for _, f := range r.FixedFiles {
		if f == path {
			return true
		}
	}
	return false
}
