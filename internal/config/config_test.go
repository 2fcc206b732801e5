package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestResolveDefaultsRootToWorkingDir(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	Load()

	s, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if s.Root != wd {
		t.Errorf("Root = %q, want %q", s.Root, wd)
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", s.LogLevel, "info")
	}
}

func TestResolveReadsEnvironment(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	t.Setenv("DEVKIT_ROOT", root)
	t.Setenv("DEVKIT_ASSETS_DIR", "/opt/assets")
	Load()

	s, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Root != root {
		t.Errorf("Root = %q, want %q", s.Root, root)
	}
	if s.AssetsDir != "/opt/assets" {
		t.Errorf("AssetsDir = %q, want %q", s.AssetsDir, "/opt/assets")
	}
}

func TestSetPersistsKnownKey(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	t.Setenv("HOME", home)
	Load()

	if err := Set(KeyLogLevel, "debug"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, ".devkit", "config.yaml"))
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if got := string(data); got != "log_level: debug\n" {
		t.Errorf("config file = %q", got)
	}
}

func TestSetRejectsUnknownKey(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	Load()

	if err := Set("mirror", "x"); err == nil {
		t.Error("expected error for unknown key, got nil")
	}
}
