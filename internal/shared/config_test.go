package shared

import (
	"testing"
	"time"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("SEED_WORKERS", "not-a-number")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("OPENAI_API_KEY", "k")

	c := Load()
	if c.HTTPAddr != ":9999" {
		t.Fatalf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.CacheTTL != time.Minute {
		t.Fatalf("CacheTTL = %v", c.CacheTTL)
	}
	if c.SeedWorkers != 4 {
		t.Fatalf("bad int should fall back to default, got %d", c.SeedWorkers)
	}
	if !c.CookieSecure {
		t.Fatal("CookieSecure should be true")
	}
	if c.OpenAIModel == "" || c.SessionTTL <= 0 {
		t.Fatalf("missing defaults: %+v", c)
	}
}
