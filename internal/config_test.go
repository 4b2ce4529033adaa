package internal

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.App.HTTP.Port)
	}
	if got := cfg.App.HTTP.Address(); got != ":8080" {
		t.Errorf("address = %q", got)
	}
	if !cfg.Publish.PersistenceEnabled() {
		t.Error("persistence should default to enabled")
	}
	if cfg.Publish.DraftsVisible {
		t.Error("drafts should default to hidden")
	}
}

func TestPublishConfigNormalisesEmptyMode(t *testing.T) {
	c := PublishConfig{}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.Persistence != PersistenceEnabled {
		t.Errorf("persistence = %q, want %q", c.Persistence, PersistenceEnabled)
	}
	if c.StoreTimeout != 5*time.Second {
		t.Errorf("store_timeout = %s, want default 5s", c.StoreTimeout)
	}
}

func TestPublishConfigRejectsUnknownMode(t *testing.T) {
	c := PublishConfig{Persistence: "sometimes"}
	if err := c.Validate(); err == nil {
		t.Error("expected error for unknown persistence mode")
	}
}

func TestPublishConfigRejectsNegativeTimeout(t *testing.T) {
	c := PublishConfig{Persistence: PersistenceDisabled, StoreTimeout: -time.Second}
	if err := c.Validate(); err == nil {
		t.Error("expected error for negative store_timeout")
	}
}

func TestPublishConfigDisabled(t *testing.T) {
	c := PublishConfig{Persistence: PersistenceDisabled}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.PersistenceEnabled() {
		t.Error("disabled mode reported as enabled")
	}
}

func TestHTTPConfigRejectsBadPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		c := HTTPConfig{Port: port}
		if err := c.Validate(); err == nil {
			t.Errorf("port %d accepted", port)
		}
	}
}
