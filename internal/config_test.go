package internal

import (
	"os"
	"path/filepath"
	"testing"

	pkgconfig "github.com/starford/berkano/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Garden.TemplatePath != "" {
		t.Errorf("default template path should use embedded templates, got %q", cfg.Garden.TemplatePath)
	}
}

func TestHTTPConfigValidate(t *testing.T) {
	for port, wantErr := range map[int]bool{
		0:     true,
		80:    false,
		8080:  false,
		65535: false,
		65536: true,
		-1:    true,
	} {
		cfg := HTTPConfig{Port: port}
		err := cfg.Validate()
		if (err != nil) != wantErr {
			t.Errorf("port %d: err = %v, wantErr = %t", port, err, wantErr)
		}
	}
}

func TestGardenConfigValidate(t *testing.T) {
	cfg := GardenConfig{OutputPath: "./public"}
	if err := cfg.Validate(); err == nil {
		t.Error("missing content path accepted")
	}

	cfg = GardenConfig{ContentPath: "./notes"}
	if err := cfg.Validate(); err == nil {
		t.Error("missing output path accepted")
	}

	cfg = GardenConfig{ContentPath: "./notes", OutputPath: "./public"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("minimal garden config rejected: %v", err)
	}
}

func TestHTTPAddress(t *testing.T) {
	cfg := HTTPConfig{Port: 3000}
	if got := cfg.Address(); got != ":3000" {
		t.Errorf("address = %q", got)
	}
}

func TestConfigLoadsFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "app:\n  log_level: DEBUG\n  http:\n    port: 9999\ngarden:\n  content_path: /tmp/notes\n  output_path: /tmp/public\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.App.HTTP.Port != 9999 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Garden.ContentPath != "/tmp/notes" {
		t.Errorf("content path = %q", cfg.Garden.ContentPath)
	}
	if cfg.Garden.StaticPath != "./static" {
		t.Errorf("static path default lost: %q", cfg.Garden.StaticPath)
	}
}
