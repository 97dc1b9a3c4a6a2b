package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"MATCH_MIN_SCORE", "AUTO_RESPOND_INTERVAL", "KAFKA_BROKERS", "SMTP_PORT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.MatchMinScore != 0.2 {
		t.Errorf("MatchMinScore = %v, want 0.2", cfg.MatchMinScore)
	}
	if cfg.AutoRespondInterval != 0 {
		t.Errorf("AutoRespondInterval = %v, want 0", cfg.AutoRespondInterval)
	}
	if cfg.IsKafkaEnabled() {
		t.Error("IsKafkaEnabled() = true with no brokers")
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want 587", cfg.SMTPPort)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MATCH_MIN_SCORE", "0.5")
	t.Setenv("AUTO_RESPOND_INTERVAL", "30s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("RATE_LIMIT_MAX", "not-a-number")

	cfg := Load()

	if cfg.MatchMinScore != 0.5 {
		t.Errorf("MatchMinScore = %v, want 0.5", cfg.MatchMinScore)
	}
	if cfg.AutoRespondInterval != 30*time.Second {
		t.Errorf("AutoRespondInterval = %v, want 30s", cfg.AutoRespondInterval)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Errorf("KafkaBrokers = %v, want [kafka-1:9092 kafka-2:9092]", cfg.KafkaBrokers)
	}
	if cfg.RateLimitMax != 100 {
		t.Errorf("RateLimitMax = %d, want fallback 100", cfg.RateLimitMax)
	}
}

func TestConfig_IsEmailEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"fully configured", Config{SMTPEnabled: true, SMTPHost: "smtp.example.com", SMTPFrom: "shop@example.com"}, true},
		{"switched off", Config{SMTPHost: "smtp.example.com", SMTPFrom: "shop@example.com"}, false},
		{"missing host", Config{SMTPEnabled: true, SMTPFrom: "shop@example.com"}, false},
		{"missing from", Config{SMTPEnabled: true, SMTPHost: "smtp.example.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsEmailEnabled(); got != tt.want {
				t.Errorf("IsEmailEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadYAMLConfigFile(t *testing.T) {
	t.Setenv("SEED_ADMIN_PASSWORD", "s3cret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
responses:
  - keywords: [price, cost]
    text: Our prices are listed on the product page.
  - text: We appreciate your feedback!
    default: true
products:
  - name: Flash Drive
    description: 64GB USB 3.0
    price: 12.5
users:
  - name: Admin
    email: admin@example.com
    password: ${SEED_ADMIN_PASSWORD}
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadYAMLConfigFile(path)
	if err != nil {
		t.Fatalf("LoadYAMLConfigFile() error = %v", err)
	}
	if len(cfg.Responses) != 2 {
		t.Fatalf("Responses = %d, want 2", len(cfg.Responses))
	}
	if def := cfg.DefaultResponse(); def == nil || def.Text != "We appreciate your feedback!" {
		t.Errorf("DefaultResponse() = %+v", def)
	}
	if cfg.Products[0].Price != 12.5 {
		t.Errorf("Products[0].Price = %v, want 12.5", cfg.Products[0].Price)
	}
	if cfg.Users[0].Password != "s3cret" {
		t.Errorf("Users[0].Password = %q, want expanded env value", cfg.Users[0].Password)
	}
	if cfg.Users[0].Role != "admin" {
		t.Errorf("Users[0].Role = %q, want default admin", cfg.Users[0].Role)
	}
}

func TestLoadYAMLConfigFile_Missing(t *testing.T) {
	cfg, err := LoadYAMLConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil || cfg != nil {
		t.Errorf("LoadYAMLConfigFile() = %v, %v, want nil, nil", cfg, err)
	}
}
