package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/clock"
	"github.com/spec-kit/report-desk/internal/domain"
	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

// maxNumberAttempts bounds the retry loop looking for an unused ticket number.
const maxNumberAttempts = 16

// Snapshotter reads and writes the whole collection to one storage slot.
type Snapshotter interface {
	Load(ctx context.Context) ([]domain.Ticket, bool, error)
	Save(ctx context.Context, tickets []domain.Ticket) error
}

// Options configures a Store.
type Options struct {
	Slot   Snapshotter
	IDs    Generator
	Clock  clock.Clock
	Logger *zap.Logger
}

// Store owns the ticket collection. Every mutation is persisted before it
// becomes visible; a failed save leaves the collection unchanged.
type Store struct {
	mu      sync.RWMutex
	tickets Collection
	slot    Snapshotter
	ids     Generator
	clock   clock.Clock
	logger  *zap.Logger
}

// New builds an empty Store. Call Load to restore the persisted collection.
func New(opts Options) *Store {
	s := &Store{
		slot:   opts.Slot,
		ids:    opts.IDs,
		clock:  opts.Clock,
		logger: opts.Logger,
	}
	if s.ids == nil {
		s.ids = NewStructuredGenerator(nil, nil)
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. It reports
// whether the slot held any data.
func (s *Store) Load(ctx context.Context) (bool, error) {
	if s.slot == nil {
		return false, nil
	}
	tickets, found, err := s.slot.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load tickets: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = Collection(tickets)
	s.logger.Info("tickets loaded", zap.Int("count", len(tickets)), zap.Bool("found", found))
	return found, nil
}

// Seed installs tickets when the store is empty. It is a no-op otherwise.
func (s *Store) Seed(ctx context.Context, tickets []domain.Ticket) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tickets) > 0 || len(tickets) == 0 {
		return false, nil
	}
	next := make(Collection, len(tickets))
	copy(next, tickets)
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.tickets = next
	return true, nil
}

// Create validates the input, assigns a fresh ticket number and prepends the
// new ticket with status new.
func (s *Store) Create(ctx context.Context, in domain.TicketInput) (domain.Ticket, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return domain.Ticket{}, apperrors.NewValidationError("title and description required", map[string]any{
			"title":       title != "",
			"description": description != "",
		})
	}
	priority, ok := domain.ParsePriority(string(in.Priority))
	if !ok {
		return domain.Ticket{}, apperrors.NewValidationError("invalid priority", map[string]any{"priority": in.Priority})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	number, err := s.nextNumberLocked(now)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket := domain.Ticket{
		ID:           uuid.NewString(),
		TicketNumber: number,
		Title:        title,
		Description:  description,
		ImageURL:     strings.TrimSpace(in.ImageURL),
		Category:     strings.TrimSpace(in.Category),
		Priority:     priority,
		Status:       domain.TicketStatusNew,
		Location:     strings.TrimSpace(in.Location),
		ReportedBy:   strings.TrimSpace(in.ReportedBy),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	next := s.tickets.WithCreated(ticket)
	if err := s.persist(ctx, next); err != nil {
		return domain.Ticket{}, err
	}
	s.tickets = next
	return ticket, nil
}

// FindByTicketNumber returns the ticket whose number matches, ignoring case.
func (s *Store) FindByTicketNumber(number string) (domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, _, ok := s.tickets.Find(number)
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return t, nil
}

// Search returns the tickets matching q, newest first. A blank query returns
// the whole collection.
func (s *Store) Search(q Query) []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tickets.Filter(q)
}

// List returns a copy of the whole collection.
func (s *Store) List() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

// Stats counts tickets per status.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tickets.Stats()
}

// Update merges patch into the numbered ticket and returns the ticket before
// and after. A missing ticket leaves the collection untouched and yields
// domain.ErrTicketNotFound.
func (s *Store) Update(ctx context.Context, number string, patch domain.TicketPatch) (domain.Ticket, domain.Ticket, error) {
	if err := validatePatch(patch); err != nil {
		return domain.Ticket{}, domain.Ticket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before, _, ok := s.tickets.Find(number)
	if !ok {
		return domain.Ticket{}, domain.Ticket{}, domain.ErrTicketNotFound
	}
	next, after, _ := s.tickets.WithPatched(number, patch, s.clock.Now().UTC())
	if err := s.persist(ctx, next); err != nil {
		return domain.Ticket{}, domain.Ticket{}, err
	}
	s.tickets = next
	return before, after, nil
}

// Delete removes the numbered ticket. A missing ticket yields domain.ErrTicketNotFound.
func (s *Store) Delete(ctx context.Context, number string) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, removed, ok := s.tickets.Without(number)
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	if err := s.persist(ctx, next); err != nil {
		return domain.Ticket{}, err
	}
	s.tickets = next
	return removed, nil
}

func (s *Store) nextNumberLocked(now time.Time) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate := s.ids.Next(now)
		if !s.tickets.Contains(candidate) {
			return candidate, nil
		}
		s.logger.Debug("ticket number collision", zap.String("ticket_number", candidate), zap.Int("attempt", attempt+1))
	}
	return "", domain.ErrTicketNumberExhausted
}

func (s *Store) persist(ctx context.Context, next Collection) error {
	if s.slot == nil {
		return nil
	}
	if err := s.slot.Save(ctx, next); err != nil {
		s.logger.Error("persist tickets", zap.Error(err))
		return apperrors.NewInternalError(fmt.Errorf("save tickets: %w", err))
	}
	return nil
}

func validatePatch(p domain.TicketPatch) error {
	if p.Status != nil && !p.Status.Valid() {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": *p.Status})
	}
	if p.Priority != nil {
		if _, ok := domain.ParsePriority(string(*p.Priority)); !ok || *p.Priority == "" {
			return apperrors.NewValidationError("invalid priority", map[string]any{"priority": *p.Priority})
		}
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return apperrors.NewValidationError("title must not be blank", nil)
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return apperrors.NewValidationError("description must not be blank", nil)
	}
	return nil
}
