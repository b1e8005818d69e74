package sweep

import (
	"fmt"
	"os"
	"sync"
)

// Sink is an append-only text destination. Each sweep event becomes one
// line; existing content is never rewritten.
type Sink struct {
	mu   sync.Mutex
	path string
}

// NewSink creates a sink writing to the file at path. The file is created
// on first append if it does not exist.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// Append writes one line (a trailing newline is added) to the sink.
// The file is opened per append so a rotated or deleted file is simply
// recreated on the next event.
func (s *Sink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open sink %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append to sink %s: %w", s.path, err)
	}
	return nil
}
