package input

import (
	"errors"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

func TestCommandsOrder(t *testing.T) {
	cmds := Commands()
	want := []Command{None, Attack, Dodge, LiftUp, Skill, Item, Burst}
	if len(cmds) != len(want) {
		t.Fatalf("expected %d commands, got %d", len(want), len(cmds))
	}
	for i := range want {
		if cmds[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], cmds[i])
		}
	}
}

func TestCommandYAML(t *testing.T) {
	var doc struct {
		Cmds  []Command `yaml:"cmds"`
		State State     `yaml:"state"`
	}
	if err := yaml.Unmarshal([]byte("cmds: [lift_up, BURST]\nstate: hold\n"), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Cmds) != 2 || doc.Cmds[0] != LiftUp || doc.Cmds[1] != Burst || doc.State != Hold {
		t.Fatalf("unexpected decode %+v", doc)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{"- lift_up", "- burst", "state: hold"} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("expected %q in encoding %q", want, out)
		}
	}

	err = yaml.Unmarshal([]byte("cmds: [fly]\n"), &doc)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestStringers(t *testing.T) {
	if Command(42).String() != "command(42)" || State(9).String() != "state(9)" {
		t.Fatalf("unexpected out-of-range names")
	}
	if _, err := Command(42).MarshalText(); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected marshal error for invalid command")
	}
}

func TestParseKey(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want ebiten.Key
	}{
		{"padded", " space ", ebiten.KeySpace},
		{"letter", "w", ebiten.KeyW},
		{"arrow", "ArrowLeft", ebiten.KeyArrowLeft},
		{"function", "F1", ebiten.KeyF1},
		{"numpad", "numpad0", ebiten.KeyNumpad0},
		{"punctuation", "Comma", ebiten.KeyComma},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			k, err := ParseKey(c.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if k != c.want {
				t.Fatalf("expected %v, got %v", c.want, k)
			}
			back, err := ParseKey(KeyName(k))
			if err != nil || back != k {
				t.Fatalf("expected %q to round trip, got %v err=%v", KeyName(k), back, err)
			}
		})
	}

	if KeyName(ebiten.KeyArrowLeft) != "ArrowLeft" {
		t.Fatalf("unexpected key name %q", KeyName(ebiten.KeyArrowLeft))
	}
	if _, err := ParseKey("Meta+Q"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}
