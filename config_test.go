package quill

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig = %+v, want %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("QUILL_MAX_SCALE", "20")
	t.Setenv("QUILL_REBUILD_COOLDOWN", "250ms")
	t.Setenv("QUILL_MARQUEE_MODE", "contains")
	t.Setenv("QUILL_DEBUG", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxScale != 20 {
		t.Errorf("MaxScale = %v, want 20", cfg.MaxScale)
	}
	if cfg.RebuildCooldown != 250*time.Millisecond {
		t.Errorf("RebuildCooldown = %v, want 250ms", cfg.RebuildCooldown)
	}
	if cfg.MarqueeMode != "contains" || !cfg.Debug {
		t.Errorf("MarqueeMode = %q, Debug = %v", cfg.MarqueeMode, cfg.Debug)
	}
	if cfg.MinScale != 0.1 {
		t.Errorf("MinScale = %v, want default 0.1", cfg.MinScale)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"zero min scale", "QUILL_MIN_SCALE", "0"},
		{"max below min", "QUILL_MAX_SCALE", "0.05"},
		{"not a number", "QUILL_MAX_SCALE", "lots"},
		{"cell range", "QUILL_MIN_CELL_SIZE", "1000"},
		{"marquee mode", "QUILL_MARQUEE_MODE", "touching"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfig(); err == nil {
				t.Errorf("LoadConfig with %s=%s succeeded", tt.key, tt.value)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
