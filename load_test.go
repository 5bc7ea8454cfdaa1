package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/trellisforge/trellis-build/trbuild"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "trellis.yaml", `
server:
  url: https://trellis.example.com
  timeout: 30s
  requests-per-second: 2
  burst: 4
timing:
  settle-delay: 250ms
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.URL != "https://trellis.example.com" {
		t.Fatalf("unexpected server url: %s", cfg.Server.URL)
	}
	if cfg.Server.Timeout.Std() != 30*time.Second || cfg.Server.Burst != 4 {
		t.Fatalf("unexpected server configuration: %+v", cfg.Server)
	}
	if cfg.Timing.SettleDelay.Std() != 250*time.Millisecond {
		t.Fatalf("settle delay = %s, want 250ms", cfg.Timing.SettleDelay)
	}
	if cfg.Timing.ResetDelay.Std() != trbuild.DefaultResetDelay {
		t.Fatalf("reset delay = %s, want the default", cfg.Timing.ResetDelay)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeFile(t, "trellis.json", `{"server": {"url": "http://localhost:8000"}, "timing": {"reset-delay": 500}}`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Timing.ResetDelay.Std() != 500*time.Millisecond {
		t.Fatalf("reset delay = %s, want 500ms", cfg.Timing.ResetDelay)
	}
	if cfg.Timing.SettleDelay.Std() != trbuild.DefaultSettleDelay {
		t.Fatalf("settle delay = %s, want the default", cfg.Timing.SettleDelay)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		Name    string
		File    string
		Content string
	}{
		{"suffix", "trellis.txt", "server:\n  url: https://trellis.example.com\n"},
		{"unknown-field", "trellis.yaml", "server:\n  url: https://trellis.example.com\n  color: blue\n"},
		{"missing-url", "trellis.yaml", "server: {}\n"},
		{"bad-scheme", "trellis.yaml", "server:\n  url: ftp://trellis.example.com\n"},
		{"negative-delay", "trellis.yaml", "server:\n  url: https://trellis.example.com\ntiming:\n  settle-delay: -1s\n"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			if _, err := loadConfig(writeFile(t, test.File, test.Content)); err == nil {
				t.Fatalf("the configuration was accepted")
			}
		})
	}

	if _, err := loadConfig(""); err == nil {
		t.Fatalf("an empty path was accepted")
	}
}

func TestLoadToken(t *testing.T) {
	path := writeFile(t, "token", "  from-file\n")

	tests := []struct {
		Token string
		File  string
		Want  string
	}{
		{"", "", ""},
		{"from-flag", path, "from-flag"},
		{"", path, "from-file"},
	}

	for _, test := range tests {
		got, err := loadToken(test.Token, test.File)
		if err != nil {
			t.Fatalf("loadToken(%q, %q): %v", test.Token, test.File, err)
		}
		if got != test.Want {
			t.Fatalf("loadToken(%q, %q) = %q, want %q", test.Token, test.File, got, test.Want)
		}
	}

	if _, err := loadToken("", filepath.Join(t.TempDir(), "missing")); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("a missing token file was accepted: %v", err)
	}
}
