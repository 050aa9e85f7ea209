package main

import (
	"strings"
	"testing"
)

func TestExecute_Version(t *testing.T) {
	err := Execute("1.0.0", "abc123", "bugloc", []string{"--version"})
	if err != nil {
		t.Errorf("Expected no error for --version, got: %v", err)
	}
}

func TestExecute_Help(t *testing.T) {
	for _, args := range [][]string{
		{"--help"},
		{"extract", "--help"},
		{"evaluate", "--help"},
		{"serve", "--help"},
	} {
		if err := Execute("1.0.0", "abc123", "bugloc", args); err != nil {
			t.Errorf("Expected no error for %v, got: %v", args, err)
		}
	}
}

func TestExecute_InvalidFlag(t *testing.T) {
	err := Execute("1.0.0", "abc123", "bugloc", []string{"extract", "--invalid-flag"})
	if err == nil {
		t.Error("Expected error for invalid flag")
	}
}

func TestExecute_UnexpectedArgs(t *testing.T) {
	err := Execute("1.0.0", "abc123", "bugloc", []string{"evaluate", "extra"})
	if err == nil {
		t.Error("Expected error for positional arguments")
	}
}

func TestExecute_InvalidScorer(t *testing.T) {
	err := Execute("1.0.0", "abc123", "bugloc", []string{"evaluate", "--features", "f.csv", "--scorer", "invalid"})
	if err == nil {
		t.Fatal("Expected error for invalid scorer")
	}
	if !strings.Contains(err.Error(), "scorer") {
		t.Errorf("Expected error about scorer, got: %v", err)
	}
}

func TestExecute_UnknownDataset(t *testing.T) {
	err := Execute("1.0.0", "abc123", "bugloc", []string{"extract", "--dataset", "mozilla"})
	if err == nil {
		t.Fatal("Expected error for unknown dataset")
	}
	if !strings.Contains(err.Error(), "dataset") {
		t.Errorf("Expected error about dataset, got: %v", err)
	}
}

func TestRunMain_Success(t *testing.T) {
	exitCode := -1
	mockExit := func(code int) {
		exitCode = code
	}

	// --help should succeed
	runMain([]string{"bugloc", "--help"}, mockExit)

	if exitCode != -1 {
		t.Errorf("Expected no exit call for --help, got exit code: %d", exitCode)
	}
}

func TestRunMain_Failure(t *testing.T) {
	exitCode := -1
	mockExit := func(code int) {
		exitCode = code
	}

	runMain([]string{"bugloc", "--invalid"}, mockExit)

	if exitCode != 1 {
		t.Errorf("Expected exit code 1 for invalid flag, got: %d", exitCode)
	}
}
