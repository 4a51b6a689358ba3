package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/report-desk/internal/clock"
	"github.com/spec-kit/report-desk/internal/domain"
	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

type recordingSlot struct {
	saved   [][]domain.Ticket
	initial []domain.Ticket
	found   bool
	failErr error
}

func (r *recordingSlot) Load(context.Context) ([]domain.Ticket, bool, error) {
	return r.initial, r.found, nil
}

func (r *recordingSlot) Save(_ context.Context, tickets []domain.Ticket) error {
	if r.failErr != nil {
		return r.failErr
	}
	cp := make([]domain.Ticket, len(tickets))
	copy(cp, tickets)
	r.saved = append(r.saved, cp)
	return nil
}

// sequenceGenerator returns the queued numbers in order, then repeats the last.
type sequenceGenerator struct {
	numbers []string
	calls   int
}

func (g *sequenceGenerator) Next(time.Time) string {
	idx := g.calls
	if idx >= len(g.numbers) {
		idx = len(g.numbers) - 1
	}
	g.calls++
	return g.numbers[idx]
}

func newTestStore(t *testing.T) (*Store, *recordingSlot, *clock.FakeClock) {
	t.Helper()
	slot := &recordingSlot{}
	clk := clock.Fake(time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC))
	s := New(Options{Slot: slot, Clock: clk, IDs: NewStructuredGenerator(time.UTC, nil)})
	return s, slot, clk
}

var ticketNumberPattern = regexp.MustCompile(`^TK-\d{6}-\d{4}$`)

func TestCreateAndFind(t *testing.T) {
	s, slot, _ := newTestStore(t)
	ctx := context.Background()

	ticket, err := s.Create(ctx, domain.TicketInput{Title: "مصباح معطل", Description: "لا يعمل"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !ticketNumberPattern.MatchString(ticket.TicketNumber) {
		t.Errorf("ticket number %q", ticket.TicketNumber)
	}
	if !strings.HasPrefix(ticket.TicketNumber, "TK-250309-") {
		t.Errorf("ticket number should carry the creation date, got %q", ticket.TicketNumber)
	}
	if ticket.Status != domain.TicketStatusNew {
		t.Errorf("status = %q", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityB {
		t.Errorf("priority = %q", ticket.Priority)
	}
	if !ticket.CreatedAt.Equal(ticket.UpdatedAt) {
		t.Error("createdAt and updatedAt should match on creation")
	}
	if ticket.ID == "" {
		t.Error("missing internal id")
	}
	if len(slot.saved) != 1 || len(slot.saved[0]) != 1 {
		t.Fatalf("expected one save with one ticket, got %v", slot.saved)
	}

	for _, query := range []string{ticket.TicketNumber, strings.ToLower(ticket.TicketNumber), "  " + ticket.TicketNumber + " "} {
		got, err := s.FindByTicketNumber(query)
		if err != nil {
			t.Fatalf("find %q: %v", query, err)
		}
		if got.ID != ticket.ID {
			t.Errorf("find %q returned %q", query, got.ID)
		}
	}
}

func TestCreateRejectsBlankFields(t *testing.T) {
	s, slot, _ := newTestStore(t)
	cases := []domain.TicketInput{
		{Title: "", Description: "desc"},
		{Title: "title", Description: "   "},
		{},
	}
	for _, in := range cases {
		_, err := s.Create(context.Background(), in)
		de := apperrors.ToDomainError(err)
		if de == nil || de.Code != "VALIDATION_FAILED" {
			t.Errorf("input %+v: expected validation error, got %v", in, err)
		}
	}
	if len(slot.saved) != 0 || len(s.List()) != 0 {
		t.Error("invalid input must not change state")
	}
}

func TestCreateRejectsInvalidPriority(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, err := s.Create(context.Background(), domain.TicketInput{Title: "t", Description: "d", Priority: "Z"})
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePrependsNewestFirst(t *testing.T) {
	s, _, clk := newTestStore(t)
	ctx := context.Background()
	first, _ := s.Create(ctx, domain.TicketInput{Title: "first", Description: "d"})
	clk.Advance(time.Minute)
	second, _ := s.Create(ctx, domain.TicketInput{Title: "second", Description: "d"})

	all := s.List()
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("unexpected order: %+v", all)
	}
}

func TestCreateRetriesOnCollision(t *testing.T) {
	slot := &recordingSlot{}
	gen := &sequenceGenerator{numbers: []string{"TK-250309-1111", "TK-250309-1111", "TK-250309-2222"}}
	s := New(Options{Slot: slot, IDs: gen, Clock: clock.Fake(time.Now())})
	ctx := context.Background()

	a, err := s.Create(ctx, domain.TicketInput{Title: "a", Description: "d"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Create(ctx, domain.TicketInput{Title: "b", Description: "d"})
	if err != nil {
		t.Fatal(err)
	}
	if a.TicketNumber == b.TicketNumber {
		t.Fatalf("duplicate ticket number %q", a.TicketNumber)
	}
	if b.TicketNumber != "TK-250309-2222" {
		t.Errorf("second ticket = %q", b.TicketNumber)
	}
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	gen := &sequenceGenerator{numbers: []string{"SAME001"}}
	s := New(Options{IDs: gen})
	ctx := context.Background()
	if _, err := s.Create(ctx, domain.TicketInput{Title: "a", Description: "d"}); err != nil {
		t.Fatal(err)
	}
	_, err := s.Create(ctx, domain.TicketInput{Title: "b", Description: "d"})
	if !errors.Is(err, domain.ErrTicketNumberExhausted) {
		t.Fatalf("expected exhaustion, got %v", err)
	}
	if gen.calls != 1+maxNumberAttempts {
		t.Errorf("generator calls = %d", gen.calls)
	}
}

func TestUpdateStatus(t *testing.T) {
	s, slot, clk := newTestStore(t)
	ctx := context.Background()
	created, _ := s.Create(ctx, domain.TicketInput{Title: "مصباح معطل", Description: "لا يعمل"})

	clk.Advance(90 * time.Second)
	status := domain.TicketStatusCompleted
	before, after, err := s.Update(ctx, strings.ToLower(created.TicketNumber), domain.TicketPatch{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if before.Status != domain.TicketStatusNew || after.Status != status {
		t.Errorf("before=%q after=%q", before.Status, after.Status)
	}

	got, _ := s.FindByTicketNumber(created.TicketNumber)
	if got.Status != status {
		t.Errorf("status = %q", got.Status)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updatedAt %v not after %v", got.UpdatedAt, created.UpdatedAt)
	}
	if got.TicketNumber != created.TicketNumber || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Error("identity fields changed")
	}
	if len(slot.saved) != 2 {
		t.Errorf("saves = %d", len(slot.saved))
	}
}

func TestUpdateMissingIsNoop(t *testing.T) {
	s, slot, _ := newTestStore(t)
	ctx := context.Background()
	_, _ = s.Create(ctx, domain.TicketInput{Title: "t", Description: "d"})

	status := domain.TicketStatusFixed
	_, _, err := s.Update(ctx, "ZZZZZZZ", domain.TicketPatch{Status: &status})
	if !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(slot.saved) != 1 {
		t.Error("missing update must not persist")
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	created, _ := s.Create(ctx, domain.TicketInput{Title: "t", Description: "d"})

	bogus := domain.TicketStatus("resolved")
	_, _, err := s.Update(ctx, created.TicketNumber, domain.TicketPatch{Status: &bogus})
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	created, _ := s.Create(ctx, domain.TicketInput{Title: "broken lamp", Description: "d"})

	removed, err := s.Delete(ctx, created.TicketNumber)
	if err != nil || removed.ID != created.ID {
		t.Fatalf("delete: %v %+v", err, removed)
	}
	if got := s.Search(Query{Text: created.TicketNumber}); len(got) != 0 {
		t.Errorf("deleted ticket still searchable: %+v", got)
	}
	if _, err := s.FindByTicketNumber(created.TicketNumber); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := s.Delete(ctx, created.TicketNumber); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	s, slot, _ := newTestStore(t)
	ctx := context.Background()
	created, _ := s.Create(ctx, domain.TicketInput{Title: "t", Description: "d"})

	slot.failErr = errors.New("disk full")
	status := domain.TicketStatusFixed
	if _, _, err := s.Update(ctx, created.TicketNumber, domain.TicketPatch{Status: &status}); err == nil {
		t.Fatal("expected save error")
	}
	if _, err := s.Create(ctx, domain.TicketInput{Title: "t2", Description: "d"}); err == nil {
		t.Fatal("expected save error")
	}
	if _, err := s.Delete(ctx, created.TicketNumber); err == nil {
		t.Fatal("expected save error")
	}

	all := s.List()
	if len(all) != 1 || all[0].Status != domain.TicketStatusNew {
		t.Errorf("state changed after failed saves: %+v", all)
	}
}

func TestLoadAndSeed(t *testing.T) {
	persisted := []domain.Ticket{{TicketNumber: "ABC1234", Title: "old", Description: "d", Status: domain.TicketStatusFixed}}
	slot := &recordingSlot{initial: persisted, found: true}
	s := New(Options{Slot: slot})

	found, err := s.Load(context.Background())
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	seeded, err := s.Seed(context.Background(), []domain.Ticket{{TicketNumber: "TK-1"}})
	if err != nil || seeded {
		t.Errorf("seed over existing data: seeded=%v err=%v", seeded, err)
	}
	if got, err := s.FindByTicketNumber("abc1234"); err != nil || got.Title != "old" {
		t.Errorf("find after load: %+v %v", got, err)
	}

	empty := New(Options{Slot: &recordingSlot{}})
	if _, err := empty.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	seeded, err = empty.Seed(context.Background(), persisted)
	if err != nil || !seeded || len(empty.List()) != 1 {
		t.Errorf("seed empty store: seeded=%v err=%v", seeded, err)
	}
}

func TestSearchBlankReturnsAll(t *testing.T) {
	s, _, clk := newTestStore(t)
	ctx := context.Background()
	for _, title := range []string{"one", "two", "three"} {
		if _, err := s.Create(ctx, domain.TicketInput{Title: title, Description: "d"}); err != nil {
			t.Fatal(err)
		}
		clk.Advance(time.Second)
	}
	all := s.List()
	got := s.Search(Query{})
	if len(got) != len(all) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range got {
		if got[i].ID != all[i].ID {
			t.Errorf("order differs at %d", i)
		}
	}
	if got[0].Title != "three" {
		t.Errorf("newest first expected, got %q", got[0].Title)
	}
}

func TestUpdateNormalizesPatchValues(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	created, _ := s.Create(ctx, domain.TicketInput{Title: "t", Description: "d", Priority: "c"})

	priority := domain.TicketPriority(" a ")
	category := "  كهرباء "
	location := " Block B\t"
	_, after, err := s.Update(ctx, created.TicketNumber, domain.TicketPatch{
		Priority: &priority,
		Category: &category,
		Location: &location,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if after.Priority != domain.TicketPriorityA || after.Category != "كهرباء" || after.Location != "Block B" {
		t.Errorf("after = priority %q category %q location %q", after.Priority, after.Category, after.Location)
	}
	if got := s.Search(Query{Priorities: []domain.TicketPriority{domain.TicketPriorityA}}); len(got) != 1 {
		t.Errorf("priority filter matched %d tickets", len(got))
	}

	bad := domain.TicketPriority("urgent")
	if _, _, err := s.Update(ctx, created.TicketNumber, domain.TicketPatch{Priority: &bad}); err == nil {
		t.Error("invalid priority accepted")
	}
}
