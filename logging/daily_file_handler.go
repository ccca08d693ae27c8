package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// dailyFile is shared by a handler and all handlers derived from it through
// WithAttrs/WithGroup.
type dailyFile struct {
	mutex           sync.Mutex
	currentFile     *os.File
	currentFileName string
	logDir          string
	prefix          string
	now             func() time.Time
}

type DailyFileHandler struct {
	file           *dailyFile
	attrs          []slog.Attr
	defaultHandler slog.Handler
}

// NewDailyFileHandler writes one log file per day under logDir, named
// <prefix>-YYYY-MM-DD.log, and mirrors every record to stdout.
func NewDailyFileHandler(logDir, prefix string, opts *slog.HandlerOptions) (*DailyFileHandler, error) {
	return newDailyFileHandler(logDir, prefix, opts, time.Now)
}

func newDailyFileHandler(logDir, prefix string, opts *slog.HandlerOptions, now func() time.Time) (*DailyFileHandler, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	h := &DailyFileHandler{
		file: &dailyFile{
			logDir: logDir,
			prefix: prefix,
			now:    now,
		},
		defaultHandler: slog.NewTextHandler(os.Stdout, opts),
	}

	if err := h.file.rotateIfNeeded(); err != nil {
		return nil, err
	}

	return h, nil
}

func (f *dailyFile) rotateIfNeeded() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	fileName := fmt.Sprintf("%s-%s.log", f.prefix, f.now().Format("2006-01-02"))
	if fileName == f.currentFileName {
		return nil
	}

	if f.currentFile != nil {
		f.currentFile.Close()
	}

	file, err := os.OpenFile(filepath.Join(f.logDir, fileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	f.currentFile = file
	f.currentFileName = fileName
	return nil
}

func (f *dailyFile) write(line string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	_, err := f.currentFile.WriteString(line)
	return err
}

// Close closes the current log file.
func (h *DailyFileHandler) Close() error {
	h.file.mutex.Lock()
	defer h.file.mutex.Unlock()
	if h.file.currentFile == nil {
		return nil
	}
	err := h.file.currentFile.Close()
	h.file.currentFile = nil
	h.file.currentFileName = ""
	return err
}

func (h *DailyFileHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.file.rotateIfNeeded(); err != nil {
		// If rotation fails, at least log to stdout
		return h.defaultHandler.Handle(ctx, r)
	}

	timeStr := r.Time.Format("2006/01/02 15:04:05.000")

	var attrs strings.Builder
	for _, a := range h.attrs {
		fmt.Fprintf(&attrs, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&attrs, " %s=%v", a.Key, a.Value)
		return true
	})

	logLine := fmt.Sprintf("[%s] %-5s %s%s\n", timeStr, r.Level.String(), r.Message, attrs.String())
	err := h.file.write(logLine)

	if err2 := h.defaultHandler.Handle(ctx, r); err2 != nil && err == nil {
		err = err2
	}

	return err
}

func (h *DailyFileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DailyFileHandler{
		file:           h.file,
		attrs:          merged,
		defaultHandler: h.defaultHandler.WithAttrs(attrs),
	}
}

func (h *DailyFileHandler) WithGroup(name string) slog.Handler {
	return &DailyFileHandler{
		file:           h.file,
		attrs:          h.attrs,
		defaultHandler: h.defaultHandler.WithGroup(name),
	}
}

func (h *DailyFileHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.defaultHandler.Enabled(ctx, level)
}
