package commands

import (
	"testing"

	"github.com/diogo/omnichat/internal/config"
)

func TestApplySetting(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := applySetting(&cfg, "api_key", "abc123"); err != nil {
		t.Fatalf("api_key: %v", err)
	}
	if cfg.APIKey != "abc123" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}

	if err := applySetting(&cfg, "verbose", "true"); err != nil {
		t.Fatalf("verbose: %v", err)
	}
	if !cfg.Verbose {
		t.Error("Verbose not set")
	}

	if err := applySetting(&cfg, "copy_to_clipboard", "true"); err != nil {
		t.Fatalf("copy_to_clipboard: %v", err)
	}
	if !cfg.CopyToClipboard {
		t.Error("CopyToClipboard not set")
	}

	if err := applySetting(&cfg, "markdown_style", "light"); err != nil {
		t.Fatalf("markdown_style: %v", err)
	}
	if cfg.Markdown.Style != "light" {
		t.Errorf("Markdown.Style = %q", cfg.Markdown.Style)
	}
}

func TestApplySettingRejectsBadInput(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := applySetting(&cfg, "verbose", "maybe"); err == nil {
		t.Error("expected error for non-boolean verbose")
	}
	if err := applySetting(&cfg, "no_such_key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestApplySettingKeyIsCaseInsensitive(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := applySetting(&cfg, "API_KEY", "k"); err != nil {
		t.Fatalf("uppercase key: %v", err)
	}
	if cfg.APIKey != "k" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
}

func TestMaskKey(t *testing.T) {
	if got := maskKey("abcd"); got != "****" {
		t.Errorf("short key mask = %q", got)
	}
	if got := maskKey("AIzaSyExample1234"); got != "*************1234" {
		t.Errorf("mask = %q", got)
	}
}
