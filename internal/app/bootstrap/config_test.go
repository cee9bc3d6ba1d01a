package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMergesFileOverDefaults(t *testing.T) {
	path := writeConfigFile(t, `
service:
  http_port: 9090
tracking:
  campaign_code: "9001234567"
  postback_key: "file-key"
  cookie_lifetime_days: 30
  source_match_mode: exact
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Fatalf("port %d", cfg.HTTPPort)
	}
	if cfg.CampaignCode != "9001234567" || cfg.PostbackKey != "file-key" {
		t.Fatalf("tracking credentials not applied: %+v", cfg)
	}
	if cfg.CookieLifetime != 30*24*time.Hour {
		t.Fatalf("cookie lifetime %v", cfg.CookieLifetime)
	}
	if cfg.SourceMatchMode != "exact" {
		t.Fatalf("source match mode %q", cfg.SourceMatchMode)
	}
	if cfg.PostbackURL != "https://ad.admitad.com/tt" {
		t.Fatalf("default postback url lost: %q", cfg.PostbackURL)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
tracking:
  campaign_code: "from-file"
  postback_key: "from-file"
`)
	t.Setenv("CAMPAIGN_CODE", "from-env")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CampaignCode != "from-env" {
		t.Fatalf("env must win, got %q", cfg.CampaignCode)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Fatalf("broker list %v", cfg.KafkaBrokers)
	}
}

func TestLoadConfigFailsWithoutTrackingCredentials(t *testing.T) {
	path := writeConfigFile(t, `
tracking:
  campaign_code: "9001234567"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("missing postback key must fail startup")
	}
}

func TestLoadConfigRejectsUnknownMatchMode(t *testing.T) {
	path := writeConfigFile(t, `
tracking:
  campaign_code: "c"
  postback_key: "k"
  source_match_mode: fuzzy
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("unknown match mode must fail startup")
	}
}
