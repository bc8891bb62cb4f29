package config

import (
	"os"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	_ = os.Unsetenv("DATEFINDER_PORT")
	_ = os.Unsetenv("DATEFINDER_DATABASE_URL")
	_ = os.Unsetenv("DATEFINDER_RETENTION_DAYS")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.Port != 8080 || cfg.DatabaseURL != "" || cfg.RetentionDays != 30 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PurgeCron != "0 3 * * *" || cfg.RankedLimit != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigEnvOverride(t *testing.T) {
	_ = os.Setenv("DATEFINDER_PORT", "9090")
	_ = os.Setenv("DATEFINDER_RANKED_LIMIT", "5")
	defer func() {
		_ = os.Unsetenv("DATEFINDER_PORT")
		_ = os.Unsetenv("DATEFINDER_RANKED_LIMIT")
	}()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.Port != 9090 || cfg.RankedLimit != 5 {
		t.Fatalf("env override failed: %+v", cfg)
	}
	if cfg.HTTPAddr() != ":9090" {
		t.Fatalf("HTTPAddr = %s", cfg.HTTPAddr())
	}
}
