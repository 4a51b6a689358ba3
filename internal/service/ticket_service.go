package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/clock"
	"github.com/spec-kit/report-desk/internal/domain"
	"github.com/spec-kit/report-desk/internal/events"
	"github.com/spec-kit/report-desk/internal/export"
	"github.com/spec-kit/report-desk/internal/media"
	"github.com/spec-kit/report-desk/internal/repository"
	"github.com/spec-kit/report-desk/internal/store"
	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows over the store.
type TicketService struct {
	store       *store.Store
	history     repository.TicketHistoryRepository
	dispatcher  events.Dispatcher
	images      *media.Resolver
	clock       clock.Clock
	logger      *zap.Logger
	submitDelay time.Duration
	exportLoc   *time.Location
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store       *store.Store
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
	Images      *media.Resolver
	Clock       clock.Clock
	Logger      *zap.Logger
	// SubmitDelay simulates submission latency. Zero disables it.
	SubmitDelay time.Duration
	// ExportLocation is the zone of spreadsheet timestamps.
	ExportLocation *time.Location
}

// AdminListing is the admin table plus per-status counters.
type AdminListing struct {
	Items []domain.Ticket `json:"items"`
	Stats store.Stats     `json:"stats"`
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		store:       deps.Store,
		history:     deps.HistoryRepo,
		dispatcher:  deps.Dispatcher,
		images:      deps.Images,
		clock:       deps.Clock,
		logger:      deps.Logger,
		submitDelay: deps.SubmitDelay,
		exportLoc:   deps.ExportLocation,
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.images == nil {
		s.images = media.NewResolver(0, nil, s.logger)
	}
	if s.exportLoc == nil {
		s.exportLoc = time.UTC
	}
	return s
}

// GetTicket returns the ticket with the given number, ignoring case.
func (s *TicketService) GetTicket(number string) (domain.Ticket, error) {
	return s.store.FindByTicketNumber(number)
}

// ListTickets returns the admin table for the query.
func (s *TicketService) ListTickets(q store.Query) AdminListing {
	return AdminListing{
		Items: s.store.Search(q),
		Stats: s.store.Stats(),
	}
}

// Statuses returns the values an admin may assign.
func (s *TicketService) Statuses() []domain.StatusInfo {
	return domain.Statuses()
}

// UpdateTicket applies an admin patch.
func (s *TicketService) UpdateTicket(ctx context.Context, role domain.Role, number string, patch domain.TicketPatch) (domain.Ticket, error) {
	if patch.IsEmpty() {
		return domain.Ticket{}, apperrors.NewValidationError("no fields to update", nil)
	}
	before, after, err := s.store.Update(ctx, number, patch)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.recordChanges(ctx, role, before, after)
	return after, nil
}

// DeleteTicket removes a ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, role domain.Role, number string) error {
	removed, err := s.store.Delete(ctx, number)
	if err != nil {
		return err
	}
	s.recordHistory(ctx, &domain.TicketHistory{
		TicketNumber: removed.TicketNumber,
		ChangedBy:    role,
		ChangeType:   domain.ChangeTypeDeleted,
		OldValue:     map[string]any{"status": removed.Status, "title": removed.Title},
	})
	s.publishEvent(ctx, events.New(events.EventTicketDeleted, removed.TicketNumber, role, s.clock.Now(),
		events.TicketDeletedPayload{Title: removed.Title}))
	return nil
}

// ListHistory returns the audit trail of a ticket, oldest first. Deleted
// tickets keep their history.
func (s *TicketService) ListHistory(ctx context.Context, number string) ([]domain.TicketHistory, error) {
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	entries, err := s.history.ListByTicket(ctx, number)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(entries) == 0 {
		if _, err := s.store.FindByTicketNumber(number); err != nil {
			return nil, err
		}
	}
	if entries == nil {
		entries = []domain.TicketHistory{}
	}
	return entries, nil
}

// Export writes every ticket, in collection order, as an XLSX workbook.
func (s *TicketService) Export(w io.Writer) error {
	if err := export.Write(w, s.store.List(), s.exportLoc); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// recordChanges stamps history and events with the ticket's UpdatedAt so
// their order follows the order the store applied the patches in.
func (s *TicketService) recordChanges(ctx context.Context, role domain.Role, before, after domain.Ticket) {
	now := after.UpdatedAt
	if before.Status != after.Status {
		s.recordHistory(ctx, &domain.TicketHistory{
			TicketNumber: after.TicketNumber,
			ChangedBy:    role,
			ChangeType:   domain.ChangeTypeStatus,
			OldValue:     map[string]any{"status": before.Status},
			NewValue:     map[string]any{"status": after.Status},
			CreatedAt:    now,
		})
		s.publishEvent(ctx, events.New(events.EventTicketStatusChanged, after.TicketNumber, role, now,
			events.TicketStatusChangedPayload{OldStatus: before.Status, NewStatus: after.Status}))
	}

	fields, oldValue, newValue := diffFields(before, after)
	if len(fields) == 0 {
		return
	}
	s.recordHistory(ctx, &domain.TicketHistory{
		TicketNumber: after.TicketNumber,
		ChangedBy:    role,
		ChangeType:   domain.ChangeTypeFields,
		OldValue:     oldValue,
		NewValue:     newValue,
		CreatedAt:    now,
	})
	s.publishEvent(ctx, events.New(events.EventTicketUpdated, after.TicketNumber, role, now,
		events.TicketUpdatedPayload{Fields: fields}))
}

// recordHistory never fails the caller: the ticket change is already stored.
func (s *TicketService) recordHistory(ctx context.Context, entry *domain.TicketHistory) {
	if s.history == nil {
		return
	}
	entry.ID = uuid.NewString()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.clock.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("record ticket history",
			zap.String("ticket_number", entry.TicketNumber),
			zap.String("change_type", string(entry.ChangeType)),
			zap.Error(err))
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// diffFields compares the editable non-status fields.
func diffFields(before, after domain.Ticket) ([]string, map[string]any, map[string]any) {
	pairs := []struct {
		name     string
		old, new any
	}{
		{"title", before.Title, after.Title},
		{"description", before.Description, after.Description},
		{"priority", before.Priority, after.Priority},
		{"category", before.Category, after.Category},
		{"location", before.Location, after.Location},
		{"adminNotes", before.AdminNotes, after.AdminNotes},
		{"maintenanceNotes", before.MaintenanceNotes, after.MaintenanceNotes},
		{"assignedTo", before.AssignedTo, after.AssignedTo},
	}
	var fields []string
	oldValue := map[string]any{}
	newValue := map[string]any{}
	for _, p := range pairs {
		if p.old == p.new {
			continue
		}
		fields = append(fields, p.name)
		oldValue[p.name] = p.old
		newValue[p.name] = p.new
	}
	return fields, oldValue, newValue
}
