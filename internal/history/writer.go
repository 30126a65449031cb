package history

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Writer appends entries to a history file and prunes the oldest.
type Writer struct {
	// Dir is the directory containing the history file.
	Dir string
	// MaxEntries is the maximum number of entries to retain. Zero keeps all.
	MaxEntries int
	// Warnings receives non-fatal errors (default: os.Stderr).
	Warnings io.Writer

	mu sync.Mutex
}

// NewWriter creates a new history writer.
func NewWriter(dir string, maxEntries int) *Writer {
	return &Writer{
		Dir:        dir,
		MaxEntries: maxEntries,
	}
}

// Log adds an entry. Errors are reported to Warnings and never fail the
// run being logged.
func (w *Writer) Log(entry Entry) {
	if err := w.append(entry); err != nil {
		out := w.Warnings
		if out == nil {
			out = os.Stderr
		}
		fmt.Fprintf(out, "Warning: failed to log history: %v\n", err)
	}
}

func (w *Writer) append(entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	history, err := Load(w.Dir)
	if err != nil {
		return err
	}

	history.Entries = append(history.Entries, entry)
	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := Save(w.Dir, history); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// LogRun is a convenience method to log a finished run.
func (w *Writer) LogRun(mode, preset string, invocations int, changes map[string]int, exitCode int, err error, duration time.Duration) {
	entry := Entry{
		Timestamp:   time.Now(),
		Mode:        mode,
		Preset:      preset,
		Invocations: invocations,
		Changes:     changes,
		ExitCode:    exitCode,
		Duration:    duration.Round(time.Millisecond).String(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	w.Log(entry)
}
