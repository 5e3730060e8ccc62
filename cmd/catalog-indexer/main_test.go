package main

import (
	"testing"
)

func TestExecute_Version(t *testing.T) {
	err := Execute("1.0.0", "abc123", "catalog-indexer", []string{"--version"})
	if err != nil {
		t.Errorf("Expected no error for --version, got: %v", err)
	}
}

func TestExecute_Help(t *testing.T) {
	err := Execute("1.0.0", "abc123", "catalog-indexer", []string{"--help"})
	if err != nil {
		t.Errorf("Expected no error for --help, got: %v", err)
	}
}

func TestExecute_InvalidFlag(t *testing.T) {
	err := Execute("1.0.0", "abc123", "catalog-indexer", []string{"--invalid-flag"})
	if err == nil {
		t.Error("Expected error for invalid flag")
	}
}

func TestExecute_SearchRequiresQuery(t *testing.T) {
	err := Execute("1.0.0", "abc123", "catalog-indexer", []string{"search"})
	if err == nil {
		t.Error("Expected error for search without a query argument")
	}
}

func TestExecute_SearchHelp(t *testing.T) {
	err := Execute("1.0.0", "abc123", "catalog-indexer", []string{"search", "--help"})
	if err != nil {
		t.Errorf("Expected no error for search --help, got: %v", err)
	}
}

func TestRunMain_Success(t *testing.T) {
	exitCode := -1
	mockExit := func(code int) {
		exitCode = code
	}

	// --help should succeed
	runMain([]string{"catalog-indexer", "--help"}, mockExit)

	if exitCode != -1 {
		t.Errorf("Expected no exit call for --help, got exit code: %d", exitCode)
	}
}

func TestRunMain_Failure(t *testing.T) {
	exitCode := -1
	mockExit := func(code int) {
		exitCode = code
	}

	runMain([]string{"catalog-indexer", "--invalid"}, mockExit)

	if exitCode != 1 {
		t.Errorf("Expected exit code 1 for invalid flag, got: %d", exitCode)
	}
}
