// Package health reads step counts from a device health export file. The
// file is a small JSON document the platform health bridge rewrites as the
// day's count changes:
//
//	{"date": "2026-08-30", "steps": 7421}
//
// A date other than today means the document is stale and counts as zero.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// stepsDocument is the on-disk format.
type stepsDocument struct {
	Date  string `json:"date"`
	Steps int    `json:"steps"`
}

// FileSource reads today's absolute step count from a JSON file.
type FileSource struct {
	path  string
	clock func() time.Time
}

// NewFileSource creates a source reading from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		path:  path,
		clock: time.Now,
	}
}

// StepsToday returns the current absolute step count for the local day. A
// missing file or a stale date reads as zero steps.
func (s *FileSource) StepsToday(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read health file: %w", err)
	}

	var doc stepsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("parse health file: %w", err)
	}
	if doc.Steps < 0 {
		return 0, fmt.Errorf("health file carries a negative step count")
	}

	if date := strings.TrimSpace(doc.Date); date != "" {
		today := s.clock().Format("2006-01-02")
		if date != today {
			return 0, nil
		}
	}
	return doc.Steps, nil
}
