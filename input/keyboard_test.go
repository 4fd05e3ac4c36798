package input

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dragon/manager"
	"github.com/milk9111/dragon/prefabs"
)

// fakeKeys is a KeySource whose key set is advanced by hand once per tick.
type fakeKeys struct {
	down map[ebiten.Key]bool
	prev map[ebiten.Key]bool
}

func newFakeKeys() *fakeKeys {
	return &fakeKeys{down: map[ebiten.Key]bool{}, prev: map[ebiten.Key]bool{}}
}

// step sets the keys held during the next tick.
func (f *fakeKeys) step(keys ...ebiten.Key) {
	f.prev = f.down
	f.down = map[ebiten.Key]bool{}
	for _, k := range keys {
		f.down[k] = true
	}
}

func (f *fakeKeys) IsKeyPressed(key ebiten.Key) bool     { return f.down[key] }
func (f *fakeKeys) IsKeyJustPressed(key ebiten.Key) bool { return f.down[key] && !f.prev[key] }

func newTestKeyboard(t *testing.T, src KeySource) *Keyboard {
	t.Helper()
	kb := NewKeyboard(src, DefaultLayout(), nil)
	kb.Init(manager.NewRoot(nil))
	return kb
}

func TestKeyboardSampleEdges(t *testing.T) {
	keys := newFakeKeys()
	kb := newTestKeyboard(t, keys)

	var got []State
	kb.AddMessageListener(func(m Message) {
		if m.Command == Attack {
			got = append(got, m.State)
		}
	})

	for _, down := range [][]ebiten.Key{{ebiten.KeyJ}, {ebiten.KeyJ}, {ebiten.KeyJ}, {}, {}} {
		keys.step(down...)
		kb.Sample()
	}

	want := []State{Press, Hold, Hold, Release, Release}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestKeyboardOneMessagePerBoundKey(t *testing.T) {
	keys := newFakeKeys()
	kb := newTestKeyboard(t, keys)

	var cmds []Command
	kb.AddMessageListener(func(m Message) { cmds = append(cmds, m.Command) })

	keys.step(ebiten.KeyA, ebiten.KeyW)
	kb.Sample()

	want := []Command{LiftUp, Attack, Dodge, Item, LiftUp, Skill, Burst}
	if !reflect.DeepEqual(cmds, want) {
		t.Fatalf("expected messages %v in binding order without axis keys, got %v", want, cmds)
	}
}

func TestKeyboardAxis(t *testing.T) {
	cases := []struct {
		name string
		keys []ebiten.Key
		want int
	}{
		{"none", nil, 0},
		{"left", []ebiten.Key{ebiten.KeyA}, -1},
		{"right", []ebiten.Key{ebiten.KeyD}, 1},
		{"both_cancel", []ebiten.Key{ebiten.KeyA, ebiten.KeyD}, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			keys := newFakeKeys()
			kb := newTestKeyboard(t, keys)
			calls := 0
			var last int
			kb.AddAxisListener(func(x int) {
				calls++
				last = x
			})

			keys.step(c.keys...)
			kb.Sample()

			if calls != 1 {
				t.Fatalf("expected one axis notification per sample, got %d", calls)
			}
			if last != c.want || kb.Axis() != c.want {
				t.Fatalf("expected axis %d, got %d", c.want, last)
			}
		})
	}
}

func TestKeyboardDuplicateBindingFirstWins(t *testing.T) {
	kb := newTestKeyboard(t, newFakeKeys())

	if kb.Bind(ebiten.KeyW, Burst) {
		t.Fatalf("expected duplicate binding to be rejected")
	}
	for _, b := range kb.Bindings() {
		if b.Key == ebiten.KeyW && b.Command != LiftUp {
			t.Fatalf("expected W to keep LiftUp, got %v", b.Command)
		}
	}
	if !kb.Bind(ebiten.KeySpace, LiftUp) {
		t.Fatalf("expected new key to bind")
	}
}

func TestKeyboardInitIsIdempotent(t *testing.T) {
	kb := newTestKeyboard(t, newFakeKeys())
	n := len(kb.Bindings())
	kb.Init(manager.NewRoot(nil))
	if len(kb.Bindings()) != n {
		t.Fatalf("expected %d bindings after second init, got %d", n, len(kb.Bindings()))
	}
}

func TestLayoutFromSpec(t *testing.T) {
	spec := &prefabs.BindingsSpec{
		Axis: prefabs.AxisSpec{Negative: "ArrowLeft", Positive: "arrowright"},
		Keys: []prefabs.KeyBindingSpec{
			{Key: "Space", Command: "lift_up"},
			{Key: "z", Command: "Attack"},
		},
	}
	layout, err := LayoutFromSpec(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Layout{
		Axis: AxisKeys{Negative: ebiten.KeyArrowLeft, Positive: ebiten.KeyArrowRight},
		Bindings: []Binding{
			{Key: ebiten.KeySpace, Command: LiftUp},
			{Key: ebiten.KeyZ, Command: Attack},
		},
	}
	if !reflect.DeepEqual(layout, want) {
		t.Fatalf("expected %+v, got %+v", want, layout)
	}

	kb := NewKeyboard(newFakeKeys(), layout, nil)
	kb.Init(manager.NewRoot(nil))
	if len(kb.Bindings()) != 4 {
		t.Fatalf("expected axis keys to be bound implicitly, got %v", kb.Bindings())
	}

	spec.Keys = append(spec.Keys, prefabs.KeyBindingSpec{Key: "Q", Command: "teleport"})
	if _, err := LayoutFromSpec(spec); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	spec.Keys = []prefabs.KeyBindingSpec{{Key: "Hyper", Command: "attack"}}
	if _, err := LayoutFromSpec(spec); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}
