package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestEmbeddedSpecs(t *testing.T) {
	useDir(t, t.TempDir())

	player, err := LoadPlayerSpec()
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	m := player.Movement
	if m.TopSpeed != 16 || m.RunAccel != 96 || m.GlideAccel != 16 || m.JumpSpeed != 20 || m.GlideSpeed != -1 || m.GroundProbe != 0.1 {
		t.Fatalf("unexpected movement tuning %+v", m)
	}
	names := map[string]bool{}
	for _, c := range player.Animation.Clips {
		names[c.Name] = true
	}
	for _, want := range []string{"idle", "walk", "jump_1", "jump_2", "jump_3", "jump_4"} {
		if !names[want] {
			t.Fatalf("missing clip %q", want)
		}
	}

	bindings, err := LoadBindingsSpec()
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	if bindings.Axis.Negative != "A" || bindings.Axis.Positive != "D" || len(bindings.Keys) != 9 {
		t.Fatalf("unexpected bindings %+v", bindings)
	}

	level, err := LoadLevelSpec()
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	if level.GroundLayer != 8 || level.Gravity != -30 || len(level.Platforms) == 0 {
		t.Fatalf("unexpected level %+v", level)
	}
	if level.Background.ColorOr(color.Black) == color.Black {
		t.Fatalf("expected background color to parse")
	}

	if _, err := LoadScript("demo"); err != nil {
		t.Fatalf("script: %v", err)
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)

	body := "movement:\n  top_speed: 9\n"
	if err := os.WriteFile(filepath.Join(dir, PlayerFile), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	spec, err := LoadPlayerSpec()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Movement.TopSpeed != 9 {
		t.Fatalf("expected disk copy to win, got top speed %v", spec.Movement.TopSpeed)
	}

	if err := os.WriteFile(filepath.Join(dir, LevelFile), []byte("platforms: {"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadLevelSpec(); err == nil || !strings.Contains(err.Error(), "prefabs: unmarshal level.yaml") {
		t.Fatalf("expected wrapped unmarshal error, got %v", err)
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"rgb", `"#102030"`, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, false},
		{"rgba", `"10203040"`, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, false},
		{"short", `"#fff"`, color.NRGBA{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var doc struct {
				C *YAMLColor `yaml:"c"`
			}
			err := yaml.Unmarshal([]byte("c: "+c.in), &doc)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.C.Color != c.want {
				t.Fatalf("expected %v, got %v", c.want, doc.C.Color)
			}
		})
	}
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, PlayerFile), []byte("name: x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case name := <-w.Events:
			if name != PlayerFile {
				t.Fatalf("expected only spec files, got %q", name)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
			for _, rest := range w.Poll() {
				if rest != PlayerFile {
					t.Fatalf("unexpected pending event %q", rest)
				}
			}
			return
		case <-deadline:
			t.Fatalf("timed out waiting for %s", PlayerFile)
		}
	}
}
