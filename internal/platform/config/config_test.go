package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Store.Name != "Forja 3D" {
		t.Fatalf("expected default store name, got %q", cfg.Store.Name)
	}
	if cfg.Store.WhatsAppNumber != "5524998635828" {
		t.Fatalf("expected default channel address, got %q", cfg.Store.WhatsAppNumber)
	}
	if cfg.Notifications.TTL != 2200*time.Millisecond {
		t.Fatalf("expected 2200ms notification TTL, got %v", cfg.Notifications.TTL)
	}
	if cfg.Catalog.File != "catalog.yaml" {
		t.Fatalf("expected default catalog file, got %q", cfg.Catalog.File)
	}
	if cfg.Cart.DatabaseFile != "forja3d.db" {
		t.Fatalf("expected default cart database, got %q", cfg.Cart.DatabaseFile)
	}
}

func TestLoadEnvMapPrecedence(t *testing.T) {
	cfg, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{
			"STORE_SERVER_PORT":      "9090",
			"STORE_NAME":             "Forja 3D Staging",
			"STORE_WHATSAPP_NUMBER":  "+55 (24) 99863-5828",
			"STORE_NOTIFICATION_TTL": "1500ms",
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected overridden port, got %q", cfg.Server.Port)
	}
	if cfg.Store.Name != "Forja 3D Staging" {
		t.Fatalf("expected overridden name, got %q", cfg.Store.Name)
	}
	if cfg.Store.WhatsAppNumber != "5524998635828" {
		t.Fatalf("expected channel address reduced to digits, got %q", cfg.Store.WhatsAppNumber)
	}
	if cfg.Notifications.TTL != 1500*time.Millisecond {
		t.Fatalf("expected 1500ms TTL, got %v", cfg.Notifications.TTL)
	}
}

func TestLoadDurationAcceptsBareMilliseconds(t *testing.T) {
	cfg, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{"STORE_NOTIFICATION_TTL": "2200"}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Notifications.TTL != 2200*time.Millisecond {
		t.Fatalf("expected bare integer treated as milliseconds, got %v", cfg.Notifications.TTL)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "# local overrides\nexport STORE_SERVER_PORT=7070\nSTORE_CATALOG_FILE=\"testdata/catalog.yaml\"\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("failed writing env file: %v", err)
	}

	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(envFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("expected dotenv port, got %q", cfg.Server.Port)
	}
	if cfg.Catalog.File != "testdata/catalog.yaml" {
		t.Fatalf("expected unquoted catalog path, got %q", cfg.Catalog.File)
	}
}

func TestLoadValidation(t *testing.T) {
	_, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{"STORE_WHATSAPP_NUMBER": "---"}),
	)
	if err == nil {
		t.Fatalf("expected validation error for empty channel address")
	}
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := validation.Fields()
	if len(fields) != 1 || fields[0] != "Store.WhatsAppNumber" {
		t.Fatalf("expected Store.WhatsAppNumber flagged, got %v", fields)
	}
}
