package domain

import (
	"encoding/json"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"org/eclipse/Foo.java", "org/eclipse/Foo.java"},
		{"./org/eclipse/Foo.java", "org/eclipse/Foo.java"},
		{"/org//eclipse/../eclipse/Foo.java", "org/eclipse/Foo.java"},
		{"  org/Foo.java ", "org/Foo.java"},
		{"", ""},
		{".", ""},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSourceFile_Extension(t *testing.T) {
	f := SourceFile{Path: "src/App.java"}
	if f.Extension() != "java" {
		t.Errorf("Extension() = %q, want 'java'", f.Extension())
	}
	if (SourceFile{Path: "Makefile"}).Extension() != "" {
		t.Error("Expected empty extension for Makefile")
	}
}

func TestBugReport_Fixes(t *testing.T) {
	r := &BugReport{ID: "1", FixedFiles: []string{"a/A.java", "b/B.java"}}

	if !r.Fixes("a/A.java") {
		t.Error("Expected report to fix a/A.java")
	}
	if r.Fixes("c/C.java") {
		t.Error("Did not expect report to fix c/C.java")
	}
}

func TestRecency_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   Recency
		text string
	}{
		{"no signal", NoRecency, ""},
		{"zero is a signal", RecencyOf(0), "0"},
		{"fraction", RecencyOf(0.25), "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.String(); got != tt.text {
				t.Fatalf("String() = %q, want %q", got, tt.text)
			}
			parsed, err := ParseRecency(tt.text)
			if err != nil {
				t.Fatalf("ParseRecency failed: %v", err)
			}
			if parsed != tt.in {
				t.Errorf("ParseRecency(%q) = %+v, want %+v", tt.text, parsed, tt.in)
			}
		})
	}
}

func TestParseRecency_Invalid(t *testing.T) {
	if _, err := ParseRecency("soon"); err == nil {
		t.Error("Expected error for non-numeric recency")
	}
}

func TestRecency_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Features{RVSM: 0.5, Recency: NoRecency})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["bug_recency"] != nil {
		t.Errorf("Expected null bug_recency, got %v", decoded["bug_recency"])
	}

	data, _ = json.Marshal(RecencyOf(0.5))
	if string(data) != "0.5" {
		t.Errorf("Expected 0.5, got %s", data)
	}
}

func TestFeatureColumns(t *testing.T) {
	if len(FeatureColumns) != 8 {
		t.Fatalf("Expected 8 feature columns, got %d", len(FeatureColumns))
	}
	if FeatureColumns[0] != ColumnReportID || FeatureColumns[7] != ColumnMatch {
		t.Errorf("Unexpected column order: %v", FeatureColumns)
	}
}
