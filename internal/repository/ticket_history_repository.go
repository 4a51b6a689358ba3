package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/report-desk/internal/domain"
)

// TicketHistoryRepository stores audit entries.
type TicketHistoryRepository interface {
	Create(ctx context.Context, history *domain.TicketHistory) error
	ListByTicket(ctx context.Context, ticketNumber string) ([]domain.TicketHistory, error)
}

type ticketHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketHistoryRepository builds the Postgres-backed repository.
func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{pool: pool}
}

func (r *ticketHistoryRepository) Create(ctx context.Context, history *domain.TicketHistory) error {
	oldValue, err := marshalValue(history.OldValue)
	if err != nil {
		return err
	}
	newValue, err := marshalValue(history.NewValue)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO ticket_history (id, ticket_number, changed_by, change_type, old_value, new_value, created_at)
        VALUES ($1,$2,$3,$4,$5::jsonb,$6::jsonb,$7)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		history.ID,
		history.TicketNumber,
		string(history.ChangedBy),
		string(history.ChangeType),
		oldValue,
		newValue,
		history.CreatedAt,
	).Scan(&history.CreatedAt)
}

func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketNumber string) ([]domain.TicketHistory, error) {
	const query = `
        SELECT id, ticket_number, changed_by, change_type, old_value, new_value, created_at
        FROM ticket_history WHERE UPPER(ticket_number)=UPPER($1) ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, strings.TrimSpace(ticketNumber))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketHistory
	for rows.Next() {
		var (
			history            domain.TicketHistory
			changedBy, kind    string
			oldValue, newValue []byte
		)
		if err := rows.Scan(
			&history.ID,
			&history.TicketNumber,
			&changedBy,
			&kind,
			&oldValue,
			&newValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		history.ChangedBy = domain.Role(changedBy)
		history.ChangeType = domain.TicketChangeType(kind)
		if history.OldValue, err = unmarshalValue(oldValue); err != nil {
			return nil, err
		}
		if history.NewValue, err = unmarshalValue(newValue); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}

func marshalValue(v map[string]any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode history value: %w", err)
	}
	s := string(data)
	return &s, nil
}

func unmarshalValue(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode history value: %w", err)
	}
	return v, nil
}

type memoryTicketHistoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]domain.TicketHistory
}

// NewMemoryTicketHistoryRepository keeps history in process memory. It is used
// by every storage driver except postgres.
func NewMemoryTicketHistoryRepository() TicketHistoryRepository {
	return &memoryTicketHistoryRepository{entries: map[string][]domain.TicketHistory{}}
}

func (r *memoryTicketHistoryRepository) Create(_ context.Context, history *domain.TicketHistory) error {
	key := domain.NormalizeTicketNumber(history.TicketNumber)
	if key == "" {
		return fmt.Errorf("history entry without ticket number")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = append(r.entries[key], *history)
	return nil
}

func (r *memoryTicketHistoryRepository) ListByTicket(_ context.Context, ticketNumber string) ([]domain.TicketHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.entries[domain.NormalizeTicketNumber(ticketNumber)]
	out := make([]domain.TicketHistory, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
