package zeversolar

import (
	"strings"
	"time"
)

// Snapshot is the line-split body of the last successful home.cgi response.
// A nil *Snapshot means no data is available.
type Snapshot struct {
	lines     []string
	fetchedAt time.Time
}

func NewSnapshot(body string, fetchedAt time.Time) *Snapshot {
	var lines []string
	if body = strings.TrimSuffix(body, "\n"); body != "" {
		lines = strings.Split(body, "\n")
		for i := range lines {
			lines[i] = strings.TrimSuffix(lines[i], "\r")
		}
	}
	return &Snapshot{
		lines:     lines,
		fetchedAt: fetchedAt,
	}
}

func (s *Snapshot) Line(index int) (string, bool) {
	if s == nil || index < 0 || index >= len(s.lines) {
		return "", false
	}
	return s.lines[index], true
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.lines)
}

func (s *Snapshot) Lines() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Snapshot) FetchedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.fetchedAt
}
