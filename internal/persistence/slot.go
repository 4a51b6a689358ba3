package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/spec-kit/report-desk/internal/domain"
)

// Slot persists the whole ticket collection as one JSON array under one key.
// It satisfies store.Snapshotter.
type Slot interface {
	Load(ctx context.Context) ([]domain.Ticket, bool, error)
	Save(ctx context.Context, tickets []domain.Ticket) error
	Ping(ctx context.Context) error
	Close() error
}

func encodeTickets(tickets []domain.Ticket) ([]byte, error) {
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	data, err := json.Marshal(tickets)
	if err != nil {
		return nil, fmt.Errorf("encode tickets: %w", err)
	}
	return data, nil
}

func decodeTickets(data []byte) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, fmt.Errorf("decode tickets: %w", err)
	}
	return tickets, nil
}

// MemorySlot keeps the encoded collection in process memory only.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

// NewMemorySlot returns an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (m *MemorySlot) Load(context.Context) ([]domain.Ticket, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, false, nil
	}
	tickets, err := decodeTickets(m.data)
	if err != nil {
		return nil, false, err
	}
	return tickets, true, nil
}

func (m *MemorySlot) Save(_ context.Context, tickets []domain.Ticket) error {
	data, err := encodeTickets(tickets)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *MemorySlot) Ping(context.Context) error { return nil }

func (m *MemorySlot) Close() error { return nil }
