package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.JupiterBaseURL != DefaultJupiterBaseURL {
		t.Errorf("JupiterBaseURL = %q", cfg.JupiterBaseURL)
	}
	if cfg.PMBaseURL != DefaultPMBaseURL {
		t.Errorf("PMBaseURL = %q", cfg.PMBaseURL)
	}
	if cfg.UpstreamTimeout != 15*time.Second {
		t.Errorf("UpstreamTimeout = %v, want 15s", cfg.UpstreamTimeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
}

func TestLoad_FlagsOverrideDefaults(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen-addr", "", "")
	flags.String("jupiter-api-key", "", "")
	flags.Duration("upstream-timeout", 0, "")
	if err := flags.Parse([]string{
		"--listen-addr=:9999",
		"--jupiter-api-key=secret",
		"--upstream-timeout=5s",
	}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q, want :9999", cfg.ListenAddr)
	}
	if cfg.JupiterAPIKey != "secret" {
		t.Errorf("JupiterAPIKey = %q, want secret", cfg.JupiterAPIKey)
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Errorf("UpstreamTimeout = %v, want 5s", cfg.UpstreamTimeout)
	}
}

func TestLoad_RejectsNegativeRetries(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("max-retries", 0, "")
	if err := flags.Parse([]string{"--max-retries=-1"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if _, err := Load("", flags); err == nil {
		t.Fatal("expected error for negative max retries")
	}
}
