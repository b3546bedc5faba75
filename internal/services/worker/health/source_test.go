package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDoc(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write health file: %v", err)
	}
}

func TestStepsTodayReadsCurrentDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.json")
	source := NewFileSource(path)
	today := time.Now().Format("2006-01-02")
	writeDoc(t, path, `{"date": "`+today+`", "steps": 7421}`)

	steps, err := source.StepsToday(context.Background())
	if err != nil {
		t.Fatalf("steps today: %v", err)
	}
	if steps != 7421 {
		t.Fatalf("steps = %d, want 7421", steps)
	}
}

func TestStepsTodayWithoutDateField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.json")
	source := NewFileSource(path)
	writeDoc(t, path, `{"steps": 500}`)

	steps, err := source.StepsToday(context.Background())
	if err != nil {
		t.Fatalf("steps today: %v", err)
	}
	if steps != 500 {
		t.Fatalf("steps = %d, want 500", steps)
	}
}

func TestStepsTodayStaleDateReadsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.json")
	source := NewFileSource(path)
	writeDoc(t, path, `{"date": "2020-01-01", "steps": 9000}`)

	steps, err := source.StepsToday(context.Background())
	if err != nil {
		t.Fatalf("steps today: %v", err)
	}
	if steps != 0 {
		t.Fatalf("steps = %d, want 0 for stale document", steps)
	}
}

func TestStepsTodayMissingFileReadsZero(t *testing.T) {
	source := NewFileSource(filepath.Join(t.TempDir(), "absent.json"))

	steps, err := source.StepsToday(context.Background())
	if err != nil {
		t.Fatalf("steps today: %v", err)
	}
	if steps != 0 {
		t.Fatalf("steps = %d, want 0 for missing file", steps)
	}
}

func TestStepsTodayMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.json")
	source := NewFileSource(path)
	writeDoc(t, path, `{broken`)

	if _, err := source.StepsToday(context.Background()); err == nil {
		t.Fatal("expected error for malformed document")
	}
}

func TestStepsTodayNegativeCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.json")
	source := NewFileSource(path)
	writeDoc(t, path, `{"steps": -10}`)

	if _, err := source.StepsToday(context.Background()); err == nil {
		t.Fatal("expected error for negative step count")
	}
}
