package store

import (
	"testing"
	"time"

	"github.com/spec-kit/report-desk/internal/domain"
)

func sampleCollection() Collection {
	base := time.Date(2025, 1, 15, 8, 30, 0, 0, time.UTC)
	return Collection{
		{TicketNumber: "TK-250115-1001", Title: "عطل في نظام التكييف المركزي", Description: "لا يعمل", Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityA, Location: "المبنى الرئيسي", ReportedBy: "أحمد", Phone: "0501234567", CreatedAt: base, UpdatedAt: base},
		{TicketNumber: "TK-250114-1002", Title: "Water leak", Description: "Leak in the ceiling", Status: domain.TicketStatusTransferred, Priority: domain.TicketPriorityA, Location: "Annex", ReportedBy: "Sara", Phone: "0559876543", CreatedAt: base.Add(-24 * time.Hour), UpdatedAt: base.Add(-24 * time.Hour)},
		{TicketNumber: "TK-250112-1004", Title: "Office door", Description: "Hinge needs repair", Status: domain.TicketStatusNew, Priority: domain.TicketPriorityC, Location: "Office 205", ReportedBy: "Noura", Phone: "0567778899", CreatedAt: base.Add(-72 * time.Hour), UpdatedAt: base.Add(-72 * time.Hour)},
	}
}

func TestCollectionFindIgnoresCase(t *testing.T) {
	c := sampleCollection()
	got, idx, ok := c.Find("  tk-250114-1002 ")
	if !ok || idx != 1 {
		t.Fatalf("find: ok=%v idx=%d", ok, idx)
	}
	if got.Title != "Water leak" {
		t.Errorf("title = %q", got.Title)
	}
	if _, _, ok := c.Find(""); ok {
		t.Error("blank number must not match")
	}
}

func TestCollectionWithCreatedPrepends(t *testing.T) {
	c := sampleCollection()
	next := c.WithCreated(domain.Ticket{TicketNumber: "TK-250116-2000"})
	if len(next) != len(c)+1 || next[0].TicketNumber != "TK-250116-2000" {
		t.Fatalf("unexpected head %q", next[0].TicketNumber)
	}
	if len(c) != 3 || c[0].TicketNumber != "TK-250115-1001" {
		t.Error("input collection was modified")
	}
}

func TestCollectionWithPatchedDoesNotMutateInput(t *testing.T) {
	c := sampleCollection()
	status := domain.TicketStatusCompleted
	now := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)

	next, updated, ok := c.WithPatched("TK-250112-1004", domain.TicketPatch{Status: &status}, now)
	if !ok {
		t.Fatal("expected ticket to be found")
	}
	if updated.Status != status || !updated.UpdatedAt.Equal(now) {
		t.Errorf("updated = %+v", updated)
	}
	if next[2].Status != status {
		t.Errorf("next not patched")
	}
	if c[2].Status != domain.TicketStatusNew {
		t.Error("input collection was modified")
	}
}

func TestCollectionWithPatchedMissing(t *testing.T) {
	c := sampleCollection()
	status := domain.TicketStatusFixed
	next, _, ok := c.WithPatched("ZZZZZZZ", domain.TicketPatch{Status: &status}, time.Now())
	if ok {
		t.Fatal("missing ticket reported as patched")
	}
	if len(next) != len(c) {
		t.Error("collection changed")
	}
}

func TestApplyPatchKeepsUpdatedAtMonotonic(t *testing.T) {
	updated := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	ticket := domain.Ticket{UpdatedAt: updated}
	notes := "checked"

	got := ApplyPatch(ticket, domain.TicketPatch{AdminNotes: &notes}, updated.Add(-time.Hour))
	if !got.UpdatedAt.Equal(updated) {
		t.Errorf("updatedAt moved backwards to %v", got.UpdatedAt)
	}
	if got.AdminNotes != notes {
		t.Errorf("notes = %q", got.AdminNotes)
	}
}

func TestCollectionWithout(t *testing.T) {
	c := sampleCollection()
	next, removed, ok := c.Without("tk-250114-1002")
	if !ok || removed.Title != "Water leak" {
		t.Fatalf("removed = %+v ok=%v", removed, ok)
	}
	if len(next) != 2 || next.Contains("TK-250114-1002") {
		t.Error("ticket still present")
	}
	if len(c) != 3 {
		t.Error("input collection was modified")
	}
}

func TestCollectionFilter(t *testing.T) {
	c := sampleCollection()
	cases := []struct {
		name  string
		query Query
		want  []string
	}{
		{"blank returns all in order", Query{Text: "   "}, []string{"TK-250115-1001", "TK-250114-1002", "TK-250112-1004"}},
		{"title case-insensitive", Query{Text: "WATER"}, []string{"TK-250114-1002"}},
		{"ticket number fragment", Query{Text: "1004"}, []string{"TK-250112-1004"}},
		{"arabic title", Query{Text: "التكييف"}, []string{"TK-250115-1001"}},
		{"reporter", Query{Text: "noura"}, []string{"TK-250112-1004"}},
		{"phone", Query{Text: "0559"}, []string{"TK-250114-1002"}},
		{"location", Query{Text: "annex"}, []string{"TK-250114-1002"}},
		{"description", Query{Text: "hinge"}, []string{"TK-250112-1004"}},
		{"status filter", Query{Statuses: []domain.TicketStatus{domain.TicketStatusNew, domain.TicketStatusTransferred}}, []string{"TK-250114-1002", "TK-250112-1004"}},
		{"priority filter", Query{Priorities: []domain.TicketPriority{domain.TicketPriorityA}, Text: "leak"}, []string{"TK-250114-1002"}},
		{"no match", Query{Text: "elevator"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Filter(tc.query)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d results, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i].TicketNumber != tc.want[i] {
					t.Errorf("result %d = %s, want %s", i, got[i].TicketNumber, tc.want[i])
				}
			}
		})
	}
}

func TestCollectionStats(t *testing.T) {
	stats := sampleCollection().Stats()
	if stats.Total != 3 {
		t.Errorf("total = %d", stats.Total)
	}
	if stats.ByStatus[domain.TicketStatusNew] != 1 || stats.ByStatus[domain.TicketStatusCompleted] != 0 {
		t.Errorf("by status = %v", stats.ByStatus)
	}
	if len(stats.ByStatus) != len(domain.Statuses()) {
		t.Errorf("expected every status key, got %d", len(stats.ByStatus))
	}
}
