package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// writerOutput serialises entries onto an io.Writer.
type writerOutput struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	format LogFormat
}

// NewConsoleOutput writes entries to w.
func NewConsoleOutput(w io.Writer, format LogFormat) Output {
	return &writerOutput{w: w, format: format}
}

// NewFileOutput appends entries to the file at path, creating parent directories.
func NewFileOutput(path string, format LogFormat) (Output, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &writerOutput{w: f, closer: f, format: format}, nil
}

func (o *writerOutput) Write(entry LogEntry) error {
	line, err := formatEntry(entry, o.format)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err = fmt.Fprintln(o.w, line)
	return err
}

func (o *writerOutput) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer.Close()
}

// formatEntry renders one line. Text fields are sorted by key.
func formatEntry(entry LogEntry, format LogFormat) (string, error) {
	if format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	var b strings.Builder
	b.WriteString(entry.Timestamp.Format("2006/01/02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(entry.Level)
	b.WriteString("] ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	return b.String(), nil
}
