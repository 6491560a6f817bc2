package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.RedisURL != "redis://127.0.0.1:6379/0" {
		t.Fatalf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.MaxFileSize != 50*1024*1024 {
		t.Fatalf("MaxFileSize = %d", cfg.MaxFileSize)
	}
	if cfg.MaxFiles != 10 {
		t.Fatalf("MaxFiles = %d", cfg.MaxFiles)
	}
	if cfg.PollIntervalSeconds != 2 {
		t.Fatalf("PollIntervalSeconds = %d", cfg.PollIntervalSeconds)
	}
	if cfg.JobTTLMinutes != 0 {
		t.Fatalf("JobTTLMinutes = %d", cfg.JobTTLMinutes)
	}
	if cfg.LibreOfficePath != "soffice" {
		t.Fatalf("LibreOfficePath = %q", cfg.LibreOfficePath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_FILES", "3")
	t.Setenv("STATUS_POLL_INTERVAL_SECONDS", "5")
	t.Setenv("UPLOAD_DIR", "/tmp/uploads")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.MaxFiles != 3 {
		t.Fatalf("MaxFiles = %d, want 3", cfg.MaxFiles)
	}
	if cfg.PollIntervalSeconds != 5 {
		t.Fatalf("PollIntervalSeconds = %d, want 5", cfg.PollIntervalSeconds)
	}
	if cfg.UploadDir != "/tmp/uploads" {
		t.Fatalf("UploadDir = %q", cfg.UploadDir)
	}
}

func TestLoadIgnoresMalformedInt(t *testing.T) {
	t.Setenv("MAX_FILES", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxFiles != 10 {
		t.Fatalf("MaxFiles = %d, want default 10", cfg.MaxFiles)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		RedisURL:            "redis://127.0.0.1:6379/0",
		UploadDir:           "uploads",
		PollIntervalSeconds: 2,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	broken := *cfg
	broken.RedisURL = ""
	if err := broken.Validate(); err == nil {
		t.Fatal("expected error for empty RedisURL")
	}

	broken = *cfg
	broken.UploadDir = ""
	if err := broken.Validate(); err == nil {
		t.Fatal("expected error for empty UploadDir")
	}

	broken = *cfg
	broken.PollIntervalSeconds = 0
	if err := broken.Validate(); err == nil {
		t.Fatal("expected error for non-positive poll interval")
	}

	broken = *cfg
	broken.GinMode = "release"
	broken.LibreOfficePath = ""
	if err := broken.Validate(); err == nil {
		t.Fatal("expected error for missing LibreOffice path in release mode")
	}
}
