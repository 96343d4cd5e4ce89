package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()

	for _, name := range []string{"render", "info", "browse", "overview", "export", "serve", "cache", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestRootCommand_LoadsConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	cacheDir := filepath.Join(dir, "cache")
	data := []byte("[cache]\ndir = \"" + filepath.ToSlash(cacheDir) + "\"\n\n[render]\nwidth = 400\nheight = 300\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "cache", "path"})
	root.SetOut(io.Discard)
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := c.Config.Cache.Dir; got != filepath.ToSlash(cacheDir) {
		t.Errorf("cache dir = %q, want %q", got, cacheDir)
	}
	if w, h := c.renderSize(); w != 400 || h != 300 {
		t.Errorf("render size = %vx%v, want 400x300", w, h)
	}
}

func TestRootCommand_MissingConfig(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.toml"), "cache", "path"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestCompletion(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := New(io.Discard, log.InfoLevel).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("sunburst")) {
		t.Error("bash completion does not mention the command name")
	}
}
