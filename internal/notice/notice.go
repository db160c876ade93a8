// Package notice maintains the short "recently added" list shown by the site.
package notice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
	"go.uber.org/zap"

	"github.com/palemoky/songbook-catalog/internal/logger"
)

// DateLayout is the Y.M.D format of the date field
const DateLayout = "2006.01.02"

// ErrNotFound is returned when the notice file does not exist
var ErrNotFound = errors.New("notice file not found")

// Entry is one item of the notice list
type Entry struct {
	Date    string `json:"date"`
	Content string `json:"content"`
	EndText string `json:"end_txt"`
}

// Log is a JSON array file holding the most recent entries first
type Log struct {
	path    string
	limit   int
	endText string
}

// New creates a notice log bound to a file
func New(path string, limit int, endText string) *Log {
	if limit < 1 {
		limit = 1
	}
	return &Log{path: path, limit: limit, endText: endText}
}

// Path returns the file backing the log
func (l *Log) Path() string {
	return l.path
}

// Read returns the current entries. The file may carry comments or trailing
// commas; content that still cannot be decoded reads as an empty list.
func (l *Log) Read() ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, l.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read notice file: %w", err)
	}

	standard, err := hujson.Standardize(data)
	if err != nil {
		logger.Warn("notice file is not valid JSON, starting over",
			zap.String("path", l.path), zap.Error(err))
		return []Entry{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal(standard, &entries); err != nil {
		logger.Warn("notice file has an unexpected shape, starting over",
			zap.String("path", l.path), zap.Error(err))
		return []Entry{}, nil
	}
	return entries, nil
}

// Prepend puts a new entry at the front and keeps only the newest entries.
// The file must already exist.
func (l *Log) Prepend(content string, now time.Time) ([]Entry, error) {
	entries, err := l.Read()
	if err != nil {
		return nil, err
	}

	entry := Entry{
		Date:    now.Format(DateLayout),
		Content: content,
		EndText: l.endText,
	}
	entries = append([]Entry{entry}, entries...)
	if len(entries) > l.limit {
		entries = entries[:l.limit]
	}

	if err := l.write(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (l *Log) write(entries []Entry) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode notice entries: %w", err)
	}

	out := bytes.TrimRight(buf.Bytes(), "\n")
	if err := atomic.WriteFile(l.path, bytes.NewReader(out)); err != nil {
		return fmt.Errorf("failed to write notice file: %w", err)
	}
	return nil
}
