package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"

	"xiangqi/internal/engine"
)

func TestSetupDefaults(t *testing.T) {
	cfg, err := Setup("")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if cfg.NetPort != 5555 || cfg.PollInterval() != 500*time.Millisecond {
		t.Fatalf("net defaults: %+v", cfg)
	}
	if cfg.Depths() != engine.DefaultDepths || cfg.RepetitionThreshold != 3 {
		t.Fatalf("engine defaults: %+v", cfg)
	}
}

func TestSetupFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "ENGINE_DEPTH_HARD: 6\nHTTP_ADDR: \":9000\"\nNET_PORT: 5000\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("NET_PORT", "6000")

	cfg, err := Setup(path)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if cfg.EngineDepthHard != 6 || cfg.HttpAddr != ":9000" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.NetPort != 6000 {
		t.Fatalf("env should win over file: %d", cfg.NetPort)
	}
	gs := cfg.GameSettings()
	if gs.Depths.Hard != 6 || gs.Threshold != 3 || gs.NetPollInterval != 500*time.Millisecond {
		t.Fatalf("game settings: %+v", gs)
	}
}

func TestSetupMissingFile(t *testing.T) {
	if _, err := Setup(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	log := NewLogger("debug")
	if !log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug level not enabled")
	}
	if NewLogger("bogus") == nil {
		t.Fatalf("bad level should fall back to production default")
	}
}
