package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/config"
)

func fileConfig(t *testing.T, seedDemo bool) *config.Config {
	t.Helper()
	return &config.Config{
		Storage: config.StorageConfig{
			Driver:   config.StorageFile,
			Key:      "tickets",
			FilePath: filepath.Join(t.TempDir(), "tickets.json"),
			SeedDemo: seedDemo,
		},
		Tickets: config.TicketConfig{IDFormat: config.TicketFormatSimple, Timezone: "UTC"},
	}
}

func TestOpenStorageSeedsEmptySlot(t *testing.T) {
	ctx := context.Background()
	cfg := fileConfig(t, true)

	s, err := OpenStorage(ctx, cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if n := len(s.Store.List()); n != 5 {
		t.Fatalf("seeded %d tickets", n)
	}
	s.Close()

	// Reopening reads the persisted collection back.
	reopened, err := OpenStorage(ctx, cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if _, err := reopened.Store.FindByTicketNumber("tk-250113-1003"); err != nil {
		t.Fatalf("seeded ticket not persisted: %v", err)
	}
}

func TestOpenStorageWithoutSeed(t *testing.T) {
	s, err := OpenStorage(context.Background(), fileConfig(t, false), nil, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if n := len(s.Store.List()); n != 0 {
		t.Fatalf("unexpected %d tickets", n)
	}
	if s.History == nil {
		t.Fatal("history repository missing")
	}
}
