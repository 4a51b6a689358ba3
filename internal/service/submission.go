package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/domain"
	"github.com/spec-kit/report-desk/internal/events"
	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

// Submit validates a report, waits the configured submission delay and
// creates the ticket. Cancelling ctx during the delay abandons the
// submission without creating anything.
func (s *TicketService) Submit(ctx context.Context, in domain.TicketInput) (domain.Ticket, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return domain.Ticket{}, apperrors.NewValidationError("title and description required", map[string]any{
			"title":       strings.TrimSpace(in.Title) != "",
			"description": strings.TrimSpace(in.Description) != "",
		})
	}

	imageURL, err := s.images.Resolve(ctx, in.ImageURL, uuid.NewString())
	if err != nil {
		return domain.Ticket{}, err
	}
	in.ImageURL = imageURL

	if err := s.wait(ctx, s.submitDelay); err != nil {
		s.logger.Info("submission abandoned", zap.Error(err))
		return domain.Ticket{}, err
	}

	ticket, err := s.store.Create(ctx, in)
	if err != nil {
		return domain.Ticket{}, err
	}

	s.recordHistory(ctx, &domain.TicketHistory{
		TicketNumber: ticket.TicketNumber,
		ChangedBy:    domain.RoleSubmitter,
		ChangeType:   domain.ChangeTypeCreated,
		NewValue:     map[string]any{"status": ticket.Status, "priority": ticket.Priority},
	})
	s.publishEvent(ctx, events.New(events.EventTicketCreated, ticket.TicketNumber, domain.RoleSubmitter, s.clock.Now(),
		events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
			HasImage: ticket.ImageURL != "",
		}))
	s.logger.Info("ticket submitted", zap.String("ticket_number", ticket.TicketNumber))
	return ticket, nil
}

func (s *TicketService) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(d):
		return nil
	}
}
