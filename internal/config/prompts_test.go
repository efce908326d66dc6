package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"resumefit/internal/errors"
)

func testLogger() *errors.Logger {
	return errors.NewLogger(slog.LevelError)
}

func TestPromptStoreResolvePrecedence(t *testing.T) {
	dir := t.TempDir()
	systemPath := filepath.Join(dir, "match_system.txt")
	if err := os.WriteFile(systemPath, []byte("system from file"), 0600); err != nil {
		t.Fatal(err)
	}

	overrides := PromptOverrides{
		Match: PromptOverride{
			System:     "inline system",
			SystemFile: systemPath,
			User:       "inline user",
		},
	}

	ps, err := NewPromptStore(overrides, testLogger())
	if err != nil {
		t.Fatalf("NewPromptStore failed: %v", err)
	}
	defer ps.Close()

	system, user := ps.Resolve("match")
	if system != "system from file" {
		t.Errorf("System = %q, want file content to win over inline", system)
	}
	if user != "inline user" {
		t.Errorf("User = %q", user)
	}

	// Operations with no override resolve to empty, meaning built-in defaults
	system, user = ps.Resolve("optimize")
	if system != "" || user != "" {
		t.Errorf("Resolve(optimize) = (%q, %q), want empty", system, user)
	}
}

func TestPromptStoreRejectsMissingFile(t *testing.T) {
	overrides := PromptOverrides{
		Match: PromptOverride{SystemFile: filepath.Join(t.TempDir(), "absent.txt")},
	}

	if _, err := NewPromptStore(overrides, testLogger()); err == nil {
		t.Fatal("Expected error for missing prompt file")
	}
}

func TestPromptStoreRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}

	overrides := PromptOverrides{
		Match: PromptOverride{SystemFile: path},
	}

	if _, err := NewPromptStore(overrides, testLogger()); err == nil {
		t.Fatal("Expected error for empty prompt file")
	}
}

func TestPromptStoreHotReload(t *testing.T) {
	dir := t.TempDir()
	systemPath := filepath.Join(dir, "extract_system.txt")
	if err := os.WriteFile(systemPath, []byte("first version"), 0600); err != nil {
		t.Fatal(err)
	}

	overrides := PromptOverrides{
		ExtractJob: PromptOverride{SystemFile: systemPath},
	}

	ps, err := NewPromptStore(overrides, testLogger())
	if err != nil {
		t.Fatalf("NewPromptStore failed: %v", err)
	}
	defer ps.Close()

	if err := ps.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if system, _ := ps.Resolve("extract_job"); system != "first version" {
		t.Fatalf("System = %q before rewrite", system)
	}

	if err := os.WriteFile(systemPath, []byte("second version"), 0600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if system, _ := ps.Resolve("extract_job"); system == "second version" {
			return
		}
		if time.Now().After(deadline) {
			system, _ := ps.Resolve("extract_job")
			t.Fatalf("File change never picked up, Resolve still returns %q", system)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPromptStoreWatchWithoutFilesIsNoOp(t *testing.T) {
	ps, err := NewPromptStore(PromptOverrides{
		Match: PromptOverride{System: "inline only"},
	}, testLogger())
	if err != nil {
		t.Fatalf("NewPromptStore failed: %v", err)
	}

	if err := ps.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := ps.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}
