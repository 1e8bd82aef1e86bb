package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"blackspot/internal/config"
)

func TestLoadDefaultConfigUsesEnvTokenAndExpandsPaths(t *testing.T) {
	t.Setenv("PLEX_TOKEN", "test-token")
	t.Setenv("PLEX_LIBRARY_ID", "5")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "blackspot", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Plex.Token != "test-token" {
		t.Fatalf("expected token from env, got %q", cfg.Plex.Token)
	}
	if cfg.Plex.LibraryID != "5" {
		t.Fatalf("expected library ID from env, got %q", cfg.Plex.LibraryID)
	}
	if cfg.Plex.URL != "http://127.0.0.1:32400" {
		t.Fatalf("unexpected default plex url: %q", cfg.Plex.URL)
	}
	if cfg.Analysis.TimeDiffMinutes != 3.0 {
		t.Fatalf("unexpected default time diff: %v", cfg.Analysis.TimeDiffMinutes)
	}
	if cfg.Analysis.BlacknessThreshold != 0.95 {
		t.Fatalf("unexpected default blackness threshold: %v", cfg.Analysis.BlacknessThreshold)
	}
	if cfg.Analysis.ForceBlackCheck {
		t.Fatal("expected force_black_check disabled by default")
	}
	if cfg.Analysis.Workers != 1 {
		t.Fatalf("unexpected default workers: %d", cfg.Analysis.Workers)
	}
	if got, want := cfg.TimeDiffThreshold(), 3*time.Minute; got != want {
		t.Fatalf("TimeDiffThreshold = %v, want %v", got, want)
	}
	if got, want := cfg.RequestTimeout(), 10*time.Second; got != want {
		t.Fatalf("RequestTimeout = %v, want %v", got, want)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.LogDir); err != nil {
		t.Fatalf("expected log dir to exist: %v", err)
	}
}

func TestLoadParsesFileAndTrimsPlexURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[plex]
url = "http://plex.local:32400/"
token = "  file-token  "
library_id = "2"

[analysis]
time_diff_minutes = 1.5
blackness_threshold = 0.9
force_black_check = true
workers = 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%q", exists, resolved)
	}
	if cfg.Plex.URL != "http://plex.local:32400" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Plex.URL)
	}
	if cfg.Plex.Token != "file-token" {
		t.Fatalf("expected trimmed token, got %q", cfg.Plex.Token)
	}
	if !cfg.Analysis.ForceBlackCheck {
		t.Fatal("expected force_black_check from file")
	}
	if cfg.Analysis.Workers != 4 {
		t.Fatalf("unexpected workers: %d", cfg.Analysis.Workers)
	}
	if got, want := cfg.TimeDiffThreshold(), 90*time.Second; got != want {
		t.Fatalf("TimeDiffThreshold = %v, want %v", got, want)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("PLEX_TOKEN", "")
	t.Setenv("PLEX_LIBRARY_ID", "")

	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing token",
			content: `
[plex]
url = "http://plex.local:32400"
library_id = "2"
`,
			wantErr: "plex.token",
		},
		{
			name: "threshold out of range",
			content: `
[plex]
url = "http://plex.local:32400"
token = "tok"
library_id = "2"

[analysis]
blackness_threshold = 1.5
`,
			wantErr: "blackness_threshold",
		},
		{
			name: "negative time diff",
			content: `
[plex]
url = "http://plex.local:32400"
token = "tok"
library_id = "2"

[analysis]
time_diff_minutes = -1.0
`,
			wantErr: "time_diff_minutes",
		},
		{
			name: "zero workers",
			content: `
[plex]
url = "http://plex.local:32400"
token = "tok"
library_id = "2"

[analysis]
workers = 0
`,
			wantErr: "workers",
		},
		{
			name: "bad log format",
			content: `
[plex]
url = "http://plex.local:32400"
token = "tok"
library_id = "2"

[logging]
format = "xml"
`,
			wantErr: "logging.format",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestCreateSampleWritesParsableConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[plex]") {
		t.Fatal("sample config missing [plex] section")
	}
	if !strings.Contains(string(data), "blackness_threshold") {
		t.Fatal("sample config missing blackness_threshold key")
	}
}
