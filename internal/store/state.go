package store

import (
	"strings"
	"time"

	"github.com/spec-kit/report-desk/internal/domain"
)

// Collection is the newest-first ticket list. Its methods never modify the
// receiver; transitions return a fresh slice so a failed save can be dropped.
type Collection []domain.Ticket

// Query narrows a search. Empty fields match everything.
type Query struct {
	Text       string
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Category   string
}

// Stats summarizes the collection per status.
type Stats struct {
	Total    int                         `json:"total"`
	ByStatus map[domain.TicketStatus]int `json:"byStatus"`
}

// Find returns the ticket with the given number, ignoring case and outer space.
func (c Collection) Find(number string) (domain.Ticket, int, bool) {
	number = strings.TrimSpace(number)
	if number == "" {
		return domain.Ticket{}, -1, false
	}
	for i := range c {
		if strings.EqualFold(c[i].TicketNumber, number) {
			return c[i], i, true
		}
	}
	return domain.Ticket{}, -1, false
}

// Contains reports whether a ticket with the number exists.
func (c Collection) Contains(number string) bool {
	_, _, ok := c.Find(number)
	return ok
}

// WithCreated returns a collection with t prepended.
func (c Collection) WithCreated(t domain.Ticket) Collection {
	next := make(Collection, 0, len(c)+1)
	next = append(next, t)
	return append(next, c...)
}

// WithPatched returns a collection where the numbered ticket has the patch
// applied and its UpdatedAt refreshed.
func (c Collection) WithPatched(number string, patch domain.TicketPatch, now time.Time) (Collection, domain.Ticket, bool) {
	current, idx, ok := c.Find(number)
	if !ok {
		return c, domain.Ticket{}, false
	}
	updated := ApplyPatch(current, patch, now)
	next := make(Collection, len(c))
	copy(next, c)
	next[idx] = updated
	return next, updated, true
}

// Without returns a collection lacking the numbered ticket.
func (c Collection) Without(number string) (Collection, domain.Ticket, bool) {
	removed, idx, ok := c.Find(number)
	if !ok {
		return c, domain.Ticket{}, false
	}
	next := make(Collection, 0, len(c)-1)
	next = append(next, c[:idx]...)
	next = append(next, c[idx+1:]...)
	return next, removed, true
}

// Filter returns the tickets matching q in collection order.
func (c Collection) Filter(q Query) []domain.Ticket {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]domain.Ticket, 0, len(c))
	for _, t := range c {
		if len(q.Statuses) > 0 && !containsStatus(q.Statuses, t.Status) {
			continue
		}
		if len(q.Priorities) > 0 && !containsPriority(q.Priorities, t.Priority) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(q.Category, t.Category) {
			continue
		}
		if text != "" && !matchesText(t, text) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Stats counts tickets per status.
func (c Collection) Stats() Stats {
	stats := Stats{Total: len(c), ByStatus: make(map[domain.TicketStatus]int)}
	for _, info := range domain.Statuses() {
		stats.ByStatus[info.Status] = 0
	}
	for _, t := range c {
		stats.ByStatus[t.Status]++
	}
	return stats
}

// ApplyPatch merges the non-nil patch fields into t. UpdatedAt never moves
// backwards.
func ApplyPatch(t domain.Ticket, p domain.TicketPatch, now time.Time) domain.Ticket {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		if priority, ok := domain.ParsePriority(string(*p.Priority)); ok {
			t.Priority = priority
		}
	}
	if p.Category != nil {
		t.Category = strings.TrimSpace(*p.Category)
	}
	if p.Location != nil {
		t.Location = strings.TrimSpace(*p.Location)
	}
	if p.AdminNotes != nil {
		t.AdminNotes = *p.AdminNotes
	}
	if p.MaintenanceNotes != nil {
		t.MaintenanceNotes = *p.MaintenanceNotes
	}
	if p.AssignedTo != nil {
		t.AssignedTo = strings.TrimSpace(*p.AssignedTo)
	}
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	t.UpdatedAt = now
	return t
}

// matchesText expects text already lowercased.
func matchesText(t domain.Ticket, text string) bool {
	fields := [...]string{t.TicketNumber, t.Title, t.Description, t.ReportedBy, t.Phone, t.Location}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), text) {
			return true
		}
	}
	return false
}

func containsStatus(list []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.TicketPriority, p domain.TicketPriority) bool {
	for _, candidate := range list {
		if candidate == p {
			return true
		}
	}
	return false
}
