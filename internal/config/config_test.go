package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("ADMIN_ACCESS_CODE", "")
	t.Setenv("TICKET_ID_FORMAT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != StorageFile {
		t.Errorf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Key != "tickets" {
		t.Errorf("key = %q", cfg.Storage.Key)
	}
	if cfg.Auth.AdminAccessCode != "1234" {
		t.Errorf("admin code = %q", cfg.Auth.AdminAccessCode)
	}
	if cfg.Tickets.IDFormat != TicketFormatStructured {
		t.Errorf("id format = %q", cfg.Tickets.IDFormat)
	}
	if cfg.Notification.TTL() != 5*time.Second {
		t.Errorf("ttl = %v", cfg.Notification.TTL())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"driver":       {"STORAGE_DRIVER", "mongo"},
		"id format":    {"TICKET_ID_FORMAT", "uuid"},
		"admin code":   {"ADMIN_ACCESS_CODE", "12ab"},
		"maint code":   {"MAINTENANCE_ACCESS_CODE", "x"},
		"export zone":  {"EXPORT_TIMEZONE", "Mars/Olympus"},
		"redis db":     {"REDIS_DB", "one"},
		"postgres dsn": {"STORAGE_DRIVER", "postgres"},
		"blank key":    {"STORAGE_KEY", "   "},
		"ticket zone":  {"TICKET_TIMEZONE", "Nowhere/Land"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("POSTGRES_DSN", "")
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestSubmitDelay(t *testing.T) {
	if d := (TicketConfig{SubmitDelayMS: 0}).SubmitDelay(); d != 0 {
		t.Errorf("zero delay = %v", d)
	}
	if d := (TicketConfig{SubmitDelayMS: 1500}).SubmitDelay(); d != 1500*time.Millisecond {
		t.Errorf("delay = %v", d)
	}
}

func TestCloudinaryEnabled(t *testing.T) {
	if (MediaConfig{CloudinaryCloudName: "c", CloudinaryAPIKey: "k"}).CloudinaryEnabled() {
		t.Error("missing secret should disable cloudinary")
	}
	if !(MediaConfig{CloudinaryCloudName: "c", CloudinaryAPIKey: "k", CloudinaryAPISecret: "s"}).CloudinaryEnabled() {
		t.Error("full credentials should enable cloudinary")
	}
}
