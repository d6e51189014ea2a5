package config

import (
	"testing"
)

func TestUpstreamConfigValidate(t *testing.T) {
	valid := UpstreamConfig{BaseURL: "http://api.haritkart.test:3000"}
	if err := valid.validate(); err != nil {
		t.Fatalf("expected valid base url, got %v", err)
	}

	invalid := UpstreamConfig{BaseURL: "api.haritkart.test"}
	if err := invalid.validate(); err == nil {
		t.Fatalf("expected relative base url to be rejected")
	}
}

func TestLoadRequiresEnvAndBaseURL(t *testing.T) {
	t.Setenv("HARITKART_APP_ENV", "")
	t.Setenv("HARITKART_UPSTREAM_BASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected load to fail without required env")
	}

	t.Setenv("HARITKART_APP_ENV", "dev")
	t.Setenv("HARITKART_UPSTREAM_BASE_URL", "http://127.0.0.1:3000")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.App.IsDev() {
		t.Fatalf("expected dev env")
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.App.Port)
	}
	if cfg.SessionCache.ProfileTTL <= 0 {
		t.Fatalf("expected default profile ttl")
	}
}
