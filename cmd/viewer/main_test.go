package main

import (
	"GopherViewer/internal/config"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func runWithArgs(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	var got config.Config
	cmd := newRootCmd(func(cfg config.Config) error {
		got = cfg
		return nil
	})
	cmd.SetArgs(args)
	cmd.SetOut(os.Stderr)
	err := cmd.Execute()
	return got, err
}

func TestRootCmdDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")
	cfg, err := runWithArgs(t, "--config", missing)
	if err != nil {
		t.Fatal(err)
	}

	want := config.Default()
	if cfg.Window != want.Window || cfg.Assets != want.Assets || cfg.Models != want.Models {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestRootCmdFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	content := `assets = "from-file"
watch = true

[window]
width = 1024
height = 768
title = "File"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := runWithArgs(t, "--config", path, "--width", "800", "--debug", "duck.obj")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Window.Width != 800 {
		t.Errorf("Flag should override the width, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 768 {
		t.Errorf("File height should be kept, got %d", cfg.Window.Height)
	}
	if cfg.Assets != "from-file" || !cfg.Watch {
		t.Error("Unset flags should not override file values")
	}
	if !cfg.Debug {
		t.Error("--debug should be applied")
	}
	if !filepath.IsAbs(cfg.Models.Primary) || filepath.Base(cfg.Models.Primary) != "duck.obj" {
		t.Errorf("Positional model should replace the primary as an absolute path, got %s", cfg.Models.Primary)
	}
}

func TestRootCmdRejectsInvalidSize(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")
	if _, err := runWithArgs(t, "--config", missing, "--width", "0"); err == nil {
		t.Error("A zero width should be rejected")
	}
}

func TestRootCmdTooManyArgs(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")
	if _, err := runWithArgs(t, "--config", missing, "a.obj", "b.obj"); err == nil {
		t.Error("Only one model argument is accepted")
	}
}

func TestRootCmdFlagFixesInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	if err := os.WriteFile(path, []byte("[window]\nwidth = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := runWithArgs(t, "--config", path, "--width", "800")
	if err != nil {
		t.Fatalf("--width should repair the file value: %v", err)
	}
	if cfg.Window.Width != 800 {
		t.Errorf("Expected width 800, got %d", cfg.Window.Width)
	}
}

func TestRootCmdWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")

	ran := false
	cmd := newRootCmd(func(config.Config) error {
		ran = true
		return nil
	})
	cmd.SetArgs([]string{"--config", path, "--width", "1024", "--watch", "--write-config"})
	cmd.SetOut(io.Discard)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if ran {
		t.Error("--write-config should not start the viewer")
	}

	saved, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Window.Width != 1024 || !saved.Watch {
		t.Errorf("Merged flags were not written, got %+v", saved)
	}
}
