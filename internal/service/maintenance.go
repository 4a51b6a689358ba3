package service

import (
	"context"

	"github.com/spec-kit/report-desk/internal/domain"
	"github.com/spec-kit/report-desk/internal/store"
	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

// MaintenanceStatuses are the states that put a ticket on the maintenance queue.
var MaintenanceStatuses = []domain.TicketStatus{
	domain.TicketStatusTransferred,
	domain.TicketStatusInProgress,
	domain.TicketStatusNeedsFollowup,
}

// MaintenanceUpdate is the part of a ticket the maintenance team may change.
type MaintenanceUpdate struct {
	Status           *domain.TicketStatus
	MaintenanceNotes *string
}

// ListMaintenanceQueue returns tickets waiting on the maintenance team.
func (s *TicketService) ListMaintenanceQueue(text string) []domain.Ticket {
	return s.store.Search(store.Query{Text: text, Statuses: MaintenanceStatuses})
}

// UpdateFromMaintenance changes status and maintenance notes only.
func (s *TicketService) UpdateFromMaintenance(ctx context.Context, role domain.Role, number string, in MaintenanceUpdate) (domain.Ticket, error) {
	if in.Status == nil && in.MaintenanceNotes == nil {
		return domain.Ticket{}, apperrors.NewValidationError("status or maintenanceNotes required", nil)
	}
	return s.UpdateTicket(ctx, role, number, domain.TicketPatch{
		Status:           in.Status,
		MaintenanceNotes: in.MaintenanceNotes,
	})
}
