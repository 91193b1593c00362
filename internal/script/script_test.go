package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"scriptcut/internal/services"
)

func TestLoadSkipsBlankLinesKeepsNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chapter.txt")
	content := "第一句。\n\n  \nSecond line.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0].Number != 1 || lines[1].Number != 4 {
		t.Errorf("numbers = %d, %d; want 1, 4", lines[0].Number, lines[1].Number)
	}
	if lines[1].Text != "Second line." {
		t.Errorf("text = %q", lines[1].Text)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, services.ErrInput) {
		t.Errorf("expected ErrInput, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.txt")); !errors.Is(err, services.ErrInput) {
		t.Errorf("expected ErrInput, got %v", err)
	}
}

func TestTextByNumber(t *testing.T) {
	byNumber := TextByNumber([]Line{{Number: 2, Text: "hello"}})
	if byNumber[2] != "hello" {
		t.Errorf("lookup failed: %v", byNumber)
	}
}
