// Package logger implements ports.Logger on log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/quarry/internal/ui/style"
	"go.trai.ch/zerr"
)

// Logger implements ports.Logger.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a Logger writing pretty output to stderr.
func New() ports.Logger {
	l := &Logger{}
	l.SetOutput(os.Stderr)
	return l
}

// SetOutput redirects the logger. A nil w means stderr.
// The current JSON mode is kept.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuildLocked()
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuildLocked()
}

func (l *Logger) rebuildLocked() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewPrettyHandler(l.output, opts))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its cause chain.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// ErrorEntry is one link of an error chain as the pretty logger prints it.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries flattens an error chain into one entry per link.
// zerr links contribute their own message and metadata; a zerr link without
// a message passes its metadata on to the next entry. Joined errors
// contribute each member in order; any other error ends the chain with its
// full text.
func collectErrorEntries(err error) []ErrorEntry {
	return collectInto(nil, err, nil)
}

func collectInto(entries []ErrorEntry, err error, pending map[string]any) []ErrorEntry {
	for err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for i, member := range joined.Unwrap() {
				if i == 0 {
					entries = collectInto(entries, member, pending)
					continue
				}
				entries = collectInto(entries, member, nil)
			}
			return entries
		}

		z, ok := err.(*zerr.Error)
		if !ok {
			return append(entries, ErrorEntry{Message: err.Error(), Metadata: pending})
		}

		md := z.Metadata()
		if len(pending) > 0 {
			maps.Copy(md, pending)
			pending = nil
		}
		if z.Message() == "" {
			if len(md) > 0 {
				pending = md
			}
		} else {
			if len(md) == 0 {
				md = nil
			}
			entries = append(entries, ErrorEntry{Message: z.Message(), Metadata: md})
		}
		err = errors.Unwrap(err)
	}
	return entries
}

// formatErrorEntries renders the first entry as the error and the rest as
// causes. Metadata follows its entry as sorted key: value lines.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string
	for i, entry := range entries {
		parts := strings.Split(entry.Message, "\n")
		indent := "      "
		switch i {
		case 0:
			lines = append(lines, "Error: "+parts[0])
			indent = "       "
		case 1:
			lines = append(lines, "", "  Caused by:")
			fallthrough
		default:
			lines = append(lines, "    "+style.Arrow+" "+parts[0])
		}
		for _, p := range parts[1:] {
			lines = append(lines, indent+p)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}
	return strings.Join(lines, "\n")
}
