package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Service.Id != "contact-bridge-1" {
		t.Errorf("service id = %q", cfg.Service.Id)
	}
	if cfg.Service.Locale != "en" {
		t.Errorf("locale = %q", cfg.Service.Locale)
	}
	if cfg.Log.Level != "info" || !cfg.Log.Console {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Pubsub.Driver != "gochannel" {
		t.Errorf("pubsub driver = %q", cfg.Pubsub.Driver)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {

	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[service]
locale = "uk"

[broker]
driver = "amqp"
url = "amqp://broker:5672/"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	// environment beats the file
	t.Setenv("CONTACTS_BROKER_DRIVER", "gochannel")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	// file beats the default
	if cfg.Service.Locale != "uk" {
		t.Errorf("locale = %q, want uk", cfg.Service.Locale)
	}
	if cfg.Pubsub.URL != "amqp://broker:5672/" {
		t.Errorf("broker url = %q", cfg.Pubsub.URL)
	}
	if cfg.Pubsub.Driver != "gochannel" {
		t.Errorf("driver = %q, want env override", cfg.Pubsub.Driver)
	}

	// untouched settings keep their defaults
	if cfg.Service.Id != "contact-bridge-1" {
		t.Errorf("service id = %q", cfg.Service.Id)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("missing config file accepted")
	}
}
