package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig without a file should fall back to defaults, got: %v", err)
	}
	if cfg.Server.HTTPAddress != ":8080" {
		t.Errorf("Expected default http address :8080, got %s", cfg.Server.HTTPAddress)
	}
	if cfg.Game.Speed != 1 {
		t.Errorf("Expected default speed 1, got %d", cfg.Game.Speed)
	}
	if cfg.Game.MaxPlayers != 8 {
		t.Errorf("Expected default max players 8, got %d", cfg.Game.MaxPlayers)
	}
	if cfg.Game.JackpotAmount != 500_000_000 {
		t.Errorf("Expected default jackpot 500000000, got %d", cfg.Game.JackpotAmount)
	}
	if cfg.Game.AdminPassword == "" {
		t.Error("Expected a default admin password")
	}
}

func TestLoadConfig_File(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	content := []byte(`
server:
  http_address: ":9999"
game:
  speed: 100
  jackpot_amount: 1000
  admin_password: "hunter2"
  prizes:
    - matches: 3
      powerball: false
      amount: 10
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.HTTPAddress != ":9999" {
		t.Errorf("Expected http address :9999, got %s", cfg.Server.HTTPAddress)
	}
	if cfg.Server.MetricsAddress != ":9090" {
		t.Errorf("Unset fields should keep their defaults, got %s", cfg.Server.MetricsAddress)
	}
	if cfg.Game.Speed != 100 {
		t.Errorf("Expected speed 100, got %d", cfg.Game.Speed)
	}
	if cfg.Game.JackpotAmount != 1000 {
		t.Errorf("Expected jackpot 1000, got %d", cfg.Game.JackpotAmount)
	}
	if cfg.Game.AdminPassword != "hunter2" {
		t.Errorf("Expected admin password hunter2, got %s", cfg.Game.AdminPassword)
	}
	if len(cfg.Game.Prizes) != 1 || cfg.Game.Prizes[0].Amount != 10 {
		t.Errorf("Expected one prize override of 10, got %+v", cfg.Game.Prizes)
	}
}
