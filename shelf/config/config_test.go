package config

import (
	"os"
	"testing"
)

func TestLoadINI(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test_config_*.ini")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	configContent := `BaseDir = /srv/music
YtdlpPath = /usr/local/bin/yt-dlp
RateLimitCalls = 5
RateLimitWindowSec = 2
LogLevel = debug
CoverMaxEdge = 0
`

	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("write config: %v", err)
	}
	tmpFile.Close()

	conf, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if conf.GetString("BaseDir") != "/srv/music" {
		t.Errorf("expected BaseDir=/srv/music, got %s", conf.GetString("BaseDir"))
	}
	if conf.GetInt("RateLimitCalls") != 5 {
		t.Errorf("expected RateLimitCalls=5, got %d", conf.GetInt("RateLimitCalls"))
	}
	if conf.GetInt("RateLimitWindowSec") != 2 {
		t.Errorf("expected RateLimitWindowSec=2, got %d", conf.GetInt("RateLimitWindowSec"))
	}
	if conf.GetString("LogLevel") != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", conf.GetString("LogLevel"))
	}
	if conf.GetInt("CoverMaxEdge") != 0 {
		t.Errorf("expected CoverMaxEdge=0, got %d", conf.GetInt("CoverMaxEdge"))
	}
}

func TestDefaults(t *testing.T) {
	conf := Default()

	if conf.GetString("BaseDir") != "Downloads/Music" {
		t.Errorf("default BaseDir wrong: %s", conf.GetString("BaseDir"))
	}
	if conf.GetInt("RateLimitCalls") != 10 {
		t.Errorf("default RateLimitCalls wrong: %d", conf.GetInt("RateLimitCalls"))
	}
	if conf.GetInt("RateLimitWindowSec") != 1 {
		t.Errorf("default RateLimitWindowSec wrong: %d", conf.GetInt("RateLimitWindowSec"))
	}
	if conf.GetString("AudioFormat") != "mp3" {
		t.Errorf("default AudioFormat wrong: %s", conf.GetString("AudioFormat"))
	}
	if conf.GetInt64("CoverMaxBytes") != 10*1024*1024 {
		t.Errorf("default CoverMaxBytes wrong: %d", conf.GetInt64("CoverMaxBytes"))
	}
	if conf.GetBool("LogSource") {
		t.Errorf("default LogSource should be false")
	}
}

func TestDefaultsOverriddenByFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test_config_*.ini")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString("AudioFormat = flac\n"); err != nil {
		t.Fatalf("write config: %v", err)
	}
	tmpFile.Close()

	conf, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if conf.GetString("AudioFormat") != "flac" {
		t.Errorf("expected AudioFormat=flac, got %s", conf.GetString("AudioFormat"))
	}
	// Untouched keys keep their defaults.
	if conf.GetString("AudioQuality") != "192K" {
		t.Errorf("expected AudioQuality=192K, got %s", conf.GetString("AudioQuality"))
	}
}
