package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collector.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-collector
api:
  base_url: https://aptos-network.pro/api
stream:
  url: wss://api.aptos-network.pro/real-time
  pair: APT-USDT
database:
  postgres:
    host: localhost
    port: 5432
    name: test_db
    user: testuser
    password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-collector" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-collector")
	}
	if cfg.API.BaseURL != "https://aptos-network.pro/api" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "https://aptos-network.pro/api")
	}
	if cfg.Stream.Pair != "APT-USDT" {
		t.Errorf("Stream.Pair = %q, want %q", cfg.Stream.Pair, "APT-USDT")
	}
	if cfg.Database.Postgres.Host != "localhost" {
		t.Errorf("Database.Postgres.Host = %q, want %q", cfg.Database.Postgres.Host, "localhost")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
instance:
  id: test-collector
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Postgres.Password != "secret123" {
		t.Errorf("Database.Postgres.Password = %q, want %q", cfg.Database.Postgres.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: test-collector
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.Stream.URL != DefaultStreamURL {
		t.Errorf("Stream.URL = %q, want %q", cfg.Stream.URL, DefaultStreamURL)
	}
	if cfg.Stream.Pair != DefaultPair {
		t.Errorf("Stream.Pair = %q, want %q", cfg.Stream.Pair, DefaultPair)
	}
	if cfg.Database.Postgres.Port != DefaultDBPort {
		t.Errorf("Database.Postgres.Port = %d, want %d", cfg.Database.Postgres.Port, DefaultDBPort)
	}
	if cfg.Writer.BatchSize != DefaultBatchSize {
		t.Errorf("Writer.BatchSize = %d, want %d", cfg.Writer.BatchSize, DefaultBatchSize)
	}
	if cfg.Writer.FlushInterval != DefaultFlushInterval {
		t.Errorf("Writer.FlushInterval = %v, want %v", cfg.Writer.FlushInterval, DefaultFlushInterval)
	}
	if cfg.Poller.Interval != 30*time.Second {
		t.Errorf("Poller.Interval = %v, want %v", cfg.Poller.Interval, 30*time.Second)
	}
	if cfg.Health.Port != DefaultHealthPort {
		t.Errorf("Health.Port = %d, want %d", cfg.Health.Port, DefaultHealthPort)
	}
}

func TestLoadAndValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		yaml := `
instance:
  id: test-collector
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: testpass
`
		path := writeTempFile(t, yaml)
		if _, err := LoadAndValidate(path); err != nil {
			t.Fatalf("LoadAndValidate failed: %v", err)
		}
	})

	t.Run("missing instance id", func(t *testing.T) {
		yaml := `
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: testpass
`
		path := writeTempFile(t, yaml)
		_, err := LoadAndValidate(path)
		if err == nil || !strings.Contains(err.Error(), "instance.id") {
			t.Errorf("error = %v, want instance.id validation failure", err)
		}
	})

	t.Run("missing database host", func(t *testing.T) {
		yaml := `
instance:
  id: test-collector
database:
  postgres:
    name: test_db
    user: testuser
    password: testpass
`
		path := writeTempFile(t, yaml)
		_, err := LoadAndValidate(path)
		if err == nil || !strings.Contains(err.Error(), "database.postgres.host") {
			t.Errorf("error = %v, want database.postgres.host validation failure", err)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *CollectorConfig {
		cfg := &CollectorConfig{}
		cfg.Instance.ID = "c1"
		cfg.Database.Postgres = DBConfig{
			Host: "localhost", Name: "db", User: "u", Password: "p",
		}
		cfg.applyDefaults()
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("min conns exceed max", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Postgres.MinConns = 20
		cfg.Database.Postgres.MaxConns = 10
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want min_conns error")
		}
	})

	t.Run("reconnect delays inverted", func(t *testing.T) {
		cfg := valid()
		cfg.Stream.ReconnectBaseDelay = 2 * time.Minute
		cfg.Stream.ReconnectMaxDelay = time.Second
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want reconnect delay error")
		}
	})

	t.Run("bad health port", func(t *testing.T) {
		cfg := valid()
		cfg.Health.Port = 70000
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want health.port error")
		}
	})
}
