package domain

import (
	"encoding/json"
	"strconv"
)

// Feature table column names, in persisted order.
const (
	ColumnReportID     = "report_id"
	ColumnFile         = "file"
	ColumnRVSM         = "rVSM_similarity"
	ColumnCollabFilter = "collab_filter"
	ColumnClassName    = "classname_similarity"
	ColumnBugRecency   = "bug_recency"
	ColumnBugFrequency = "bug_frequency"
	ColumnMatch        = "match"
)

// FeatureColumns lists the persisted header.
var FeatureColumns = []string{
	ColumnReportID,
	ColumnFile,
	ColumnRVSM,
	ColumnCollabFilter,
	ColumnClassName,
	ColumnBugRecency,
	ColumnBugFrequency,
	ColumnMatch,
}

// Recency is a bug fixing recency value that may carry no signal.
// A file that was never fixed before has no recency, which is not the same
// as a recency of zero.
type Recency struct {
	Value float64
	Valid bool
}

// NoRecency is the "no signal" sentinel.
var NoRecency = Recency{}

// RecencyOf returns a defined recency.
func RecencyOf(v float64) Recency {
	return Recency{Value: v, Valid: true}
}

// String renders the recency for the feature table; no signal is empty.
func (r Recency) String() string {
	if !r.Valid {
		return ""
	}
	return strconv.FormatFloat(r.Value, 'g', -1, 64)
}

// ParseRecency is the inverse of String.
func ParseRecency(s string) (Recency, error) {
	if s == "" {
		return NoRecency, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NoRecency, err
	}
	return RecencyOf(v), nil
}

// MarshalJSON encodes no signal as null.
func (r Recency) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// Features are the numeric inputs a scorer sees for one candidate file.
type Features struct {
	RVSM         float64 `json:"rvsm_similarity"`
	CollabFilter float64 `json:"collab_filter_score"`
	ClassName    float64 `json:"classname_similarity"`
	Recency      Recency `json:"bug_recency"`
	Frequency    int     `json:"bug_frequency"`
}

// FeatureRow is one labeled (report, candidate file) pair.
type FeatureRow struct {
	ReportID string `json:"report_id"`
	FilePath string `json:"file"`
	Features
	Label int `json:"match"`
}

// Positive reports whether the row belongs to a file fixed by the report.
func (r FeatureRow) Positive() bool {
	return r.Label == 1
}
