package leads

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// FileLog is an append-only line log on local disk. A single writer lock
// keeps concurrent appends from interleaving.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog creates a log writing to path. The file is created on first
// append.
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

// Append writes one line to the end of the log.
func (l *FileLog) Append(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("leads: open %s: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("leads: append to %s: %w", l.path, err)
	}
	return f.Sync()
}

// Lines returns every non-empty line in the log. A missing file yields an
// empty slice.
func (l *FileLog) Lines() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leads: open %s: %w", l.path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("leads: read %s: %w", l.path, err)
	}
	return lines, nil
}
