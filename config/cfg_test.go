package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	want := EngineConfig{
		SearchPaths:       []string{},
		DefaultOutputPath: "index.html",
		EscapeText:        true,
	}
	if diff := cmp.Diff(want, cfg.Engine); diff != "" {
		t.Errorf("engine defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Manifest.Save {
		t.Error("manifest saving must be off by default")
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("console level = %q, want %q", cfg.Logging.ConsoleLogger.Level, "normal")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
engine:
  search_paths: ["/usr/share/fonts", "templates"]
  defer_provided_files: true
manifest:
  save: true
  path: out/manifest.yaml
logging:
  console:
    level: debug
  file:
    level: debug
    destination: ` + filepath.Join(tmpDir, "test.log") + `
    mode: append
reporting:
  destination: ` + filepath.Join(tmpDir, "report.zip") + `
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if diff := cmp.Diff([]string{"/usr/share/fonts", "templates"}, cfg.Engine.SearchPaths); diff != "" {
		t.Errorf("search paths mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Engine.DeferProvidedFiles {
		t.Error("Expected DeferProvidedFiles to be true")
	}
	// not mentioned in file, default retained
	if cfg.Engine.DefaultOutputPath != "index.html" {
		t.Errorf("DefaultOutputPath = %q, want %q", cfg.Engine.DefaultOutputPath, "index.html")
	}
	if !cfg.Manifest.Save || cfg.Manifest.Path != filepath.Clean("out/manifest.yaml") {
		t.Errorf("Manifest = %+v, want save to out/manifest.yaml", cfg.Manifest)
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("file log mode = %q, want append", cfg.Logging.FileLogger.Mode)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "version: [1\n",
			wantErr: "failed to process configuration file",
		},
		{
			name:    "unknown field",
			content: "version: 1\nengine:\n  no_such_field: true\n",
			wantErr: "no_such_field",
		},
		{
			name:    "wrong version",
			content: "version: 2\n",
			wantErr: "Version",
		},
		{
			name:    "bad log level",
			content: "version: 1\nlogging:\n  console:\n    level: loud\n",
			wantErr: "Level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			_, err := LoadConfiguration(path)
			if err == nil {
				t.Fatal("LoadConfiguration() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfiguration() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfiguration() expected error for absent file")
	}
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "default_output_path") {
		t.Error("Prepare() output does not look like configuration")
	}

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	dumped, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	// dumped configuration must be loadable as is
	path := filepath.Join(t.TempDir(), "dumped.yaml")
	if err := os.WriteFile(path, dumped, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	again, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration(dumped) error = %v", err)
	}
	if diff := cmp.Diff(cfg.Engine, again.Engine); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
