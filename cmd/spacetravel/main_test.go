package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/spacetravel/internal/config"
)

func writeFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spacetravel.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func parse(t *testing.T, sub string, args ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := newRootCmd().Find([]string{sub})
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return cmd
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "renderer: terminal\nintegrator: rk4\ntheme: retro\ndestination: Mars\nduration: 60\n")

	tests := []struct {
		name       string
		args       []string
		integrator string
		renderer   string
		theme      string
		dest, dur  string
	}{
		{
			name:       "file only",
			args:       []string{"--config", path},
			integrator: "rk4", renderer: "terminal", theme: "retro",
			dest: "Mars", dur: "60",
		},
		{
			name:       "flags win",
			args:       []string{"--config", path, "--integrator", "verlet", "--theme", "sunset", "--destination", "Moon", "--duration", "120"},
			integrator: "verlet", renderer: "terminal", theme: "sunset",
			dest: "Moon", dur: "120",
		},
		{
			name:       "flag equal to its default still wins",
			args:       []string{"--config", path, "--renderer", "window"},
			integrator: "rk4", renderer: "window", theme: "retro",
			dest: "Mars", dur: "60",
		},
		{
			name:       "no file",
			args:       []string{"--duration", "abc"},
			integrator: "rk45", renderer: "window", theme: "night",
			dest: "Moon", dur: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := parse(t, "plot", tt.args...)

			cfg, err := loadConfig(cmd)
			if err != nil {
				t.Fatalf("loadConfig failed: %v", err)
			}
			if cfg.Integrator != tt.integrator || cfg.Renderer != tt.renderer || cfg.Theme != tt.theme {
				t.Errorf("expected %s/%s/%s, got %s/%s/%s",
					tt.integrator, tt.renderer, tt.theme, cfg.Integrator, cfg.Renderer, cfg.Theme)
			}

			dest, dur := requestInput(cmd, cfg)
			if dest != tt.dest || dur != tt.dur {
				t.Errorf("expected request (%s, %s), got (%s, %s)", tt.dest, tt.dur, dest, dur)
			}
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	pluto := writeFile(t, "destination: Pluto\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown theme", []string{"--theme", "plaid"}, "unknown theme: plaid"},
		{"unknown integrator", []string{"--integrator", "euler"}, "unknown integrator: euler"},
		{"unknown renderer", []string{"--renderer", "hologram"}, "unknown renderer: hologram"},
		{"unknown destination in file", []string{"--config", pluto}, "unknown destination: Pluto"},
		{"missing file", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}, "failed to load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(parse(t, "run", tt.args...))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadConfig_UnknownDestinationIs(t *testing.T) {
	_, err := loadConfig(parse(t, "run", "--config", writeFile(t, "destination: Pluto\n")))
	if !errors.Is(err, config.ErrUnknownDestination) {
		t.Errorf("expected ErrUnknownDestination, got %v", err)
	}
}

func TestConfigCommand(t *testing.T) {
	in := writeFile(t, "destination: Mars\nduration: 3600\nrtol: 1e-8\n")
	out := filepath.Join(t.TempDir(), "effective.yaml")

	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"config", out, "--config", in, "--theme", "sunset", "--renderer", "terminal"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config command failed: %v", err)
	}
	if !strings.Contains(buf.String(), "wrote "+out) {
		t.Errorf("unexpected output %q", buf.String())
	}

	cfg, err := config.Load(out)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Destination != "Mars" || cfg.Duration != 3600 || cfg.RTol != 1e-8 {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Theme != "sunset" || cfg.Renderer != "terminal" {
		t.Errorf("flag values lost: %+v", cfg)
	}
	if cfg.Integrator != config.DefaultIntegrator {
		t.Errorf("expected default integrator, got %s", cfg.Integrator)
	}
}

func TestConfigCommand_NeedsPath(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"config"})
	if err := root.Execute(); err == nil {
		t.Error("expected an error without a path")
	}
}
