package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 7171 {
		t.Errorf("port = %d, want 7171", cfg.Server.Port)
	}
	if cfg.Storage.StorageEngine != "sqlite" {
		t.Errorf("storage engine = %q, want sqlite", cfg.Storage.StorageEngine)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("llm provider = %q, want ollama", cfg.LLM.Provider)
	}
	if cfg.World.DefaultEventDuration != 24*time.Hour {
		t.Errorf("event duration = %v, want 24h", cfg.World.DefaultEventDuration)
	}
	if cfg.Security.RateLimit != 10 {
		t.Errorf("rate limit = %v, want 10", cfg.Security.RateLimit)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("LOREWEAVER_PORT", "9090")
	t.Setenv("LOREWEAVER_LLM_PROVIDER", "gemini")
	t.Setenv("LOREWEAVER_EVENT_DURATION", "2h")
	t.Setenv("LOREWEAVER_RATE_LIMIT", "2.5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("llm provider = %q, want gemini", cfg.LLM.Provider)
	}
	if cfg.World.DefaultEventDuration != 2*time.Hour {
		t.Errorf("event duration = %v, want 2h", cfg.World.DefaultEventDuration)
	}
	if cfg.Security.RateLimit != 2.5 {
		t.Errorf("rate limit = %v, want 2.5", cfg.Security.RateLimit)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("LOREWEAVER_PORT", "not-a-number")
	t.Setenv("LOREWEAVER_EVENT_DURATION", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// Unparseable values fall back to defaults.
	if cfg.Server.Port != 7171 {
		t.Errorf("port = %d, want default 7171", cfg.Server.Port)
	}
	if cfg.World.DefaultEventDuration != 24*time.Hour {
		t.Errorf("event duration = %v, want default 24h", cfg.World.DefaultEventDuration)
	}
}
