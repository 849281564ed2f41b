package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearEnv keeps the caller's environment from leaking into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DATA_DIR", "BACKEND", "FLUSH_THRESHOLD", "LOG_LEVEL", "METRICS_FILE"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "./pyaz/data" || cfg.Backend != BackendLSM || cfg.FlushThreshold != 1000 || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
data_dir: /tmp/pyaz-test
backend: memory
flush_threshold: 3
log_level: debug
metrics_file: /tmp/pyaz.prom
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		DataDir:        "/tmp/pyaz-test",
		Backend:        BackendMemory,
		FlushThreshold: 3,
		LogLevel:       "debug",
		MetricsFile:    "/tmp/pyaz.prom",
	}
	if *cfg != want {
		t.Errorf("expected %+v, got %+v", want, *cfg)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "data_dir: /from/file\nflush_threshold: 3\n")
	t.Setenv("DATA_DIR", "/from/env")
	t.Setenv("FLUSH_THRESHOLD", "42")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/from/env" || cfg.FlushThreshold != 42 {
		t.Errorf("expected env to win, got %+v", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{"bad yaml", "data_dir: [", nil, "failed to parse config file"},
		{"bad backend", "backend: raft", nil, "unknown backend"},
		{"bad threshold", "flush_threshold: -1", nil, "flush threshold"},
		{"bad level", "log_level: loud", nil, "invalid log level"},
		{"bad env threshold", "", map[string]string{"FLUSH_THRESHOLD": "many"}, "invalid FLUSH_THRESHOLD"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
