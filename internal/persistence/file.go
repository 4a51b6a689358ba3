package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/spec-kit/report-desk/internal/domain"
)

// FileSlot stores the collection in a JSON file. Writes replace the file
// atomically so a crash never leaves a half-written array behind.
type FileSlot struct {
	path string
}

// NewFileSlot prepares the parent directory of path.
func NewFileSlot(path string) (*FileSlot, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("file slot: mkdir: %w", err)
		}
	}
	return &FileSlot{path: path}, nil
}

func (f *FileSlot) Load(context.Context) ([]domain.Ticket, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("file slot: read: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false, nil
	}
	tickets, err := decodeTickets(data)
	if err != nil {
		return nil, false, fmt.Errorf("file slot: %w", err)
	}
	return tickets, true, nil
}

func (f *FileSlot) Save(_ context.Context, tickets []domain.Ticket) error {
	data, err := encodeTickets(tickets)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(f.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("file slot: write: %w", err)
	}
	return nil
}

// Ping checks that the slot directory is reachable.
func (f *FileSlot) Ping(context.Context) error {
	if _, err := os.Stat(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("file slot: %w", err)
	}
	return nil
}

func (f *FileSlot) Close() error { return nil }
