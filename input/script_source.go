package input

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/hajimehoshi/ebiten/v2"
)

// ScriptKeys is a KeySource driven by a tengo script, used for demo playback
// and for replaying input deterministically. Before each run the script sees
// `frame` (ticks since start); it reports the keys held this tick by
// assigning an array of key names to `keys`, and may set `done = true` to end
// the playback.
type ScriptKeys struct {
	compiled *tengo.Compiled
	frame    int
	done     bool

	down map[ebiten.Key]bool
	prev map[ebiten.Key]bool
}

func NewScriptKeys(src []byte) (*ScriptKeys, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	_ = script.Add("frame", 0)
	_ = script.Add("keys", []any{})
	_ = script.Add("done", false)

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input: compile key script: %w", err)
	}
	return &ScriptKeys{
		compiled: compiled,
		down:     map[ebiten.Key]bool{},
		prev:     map[ebiten.Key]bool{},
	}, nil
}

// Advance runs the script for the next tick. On error no keys are down.
func (s *ScriptKeys) Advance() error {
	s.prev = s.down
	s.down = map[ebiten.Key]bool{}
	frame := s.frame
	s.frame++

	if s.done {
		return nil
	}
	if err := s.compiled.Set("frame", frame); err != nil {
		return fmt.Errorf("input: key script frame %d: %w", frame, err)
	}
	if err := s.compiled.Set("keys", []any{}); err != nil {
		return fmt.Errorf("input: key script frame %d: %w", frame, err)
	}
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("input: key script frame %d: %w", frame, err)
	}

	down := map[ebiten.Key]bool{}
	for _, v := range s.compiled.Get("keys").Array() {
		name, ok := v.(string)
		if !ok {
			return fmt.Errorf("input: key script frame %d: key %v is not a string", frame, v)
		}
		key, err := ParseKey(name)
		if err != nil {
			return fmt.Errorf("input: key script frame %d: %w", frame, err)
		}
		down[key] = true
	}
	s.down = down
	s.done = s.compiled.Get("done").Bool()
	return nil
}

// Done reports whether the script has finished its playback.
func (s *ScriptKeys) Done() bool {
	return s.done
}

func (s *ScriptKeys) Frame() int {
	return s.frame
}

func (s *ScriptKeys) IsKeyPressed(key ebiten.Key) bool {
	return s.down[key]
}

func (s *ScriptKeys) IsKeyJustPressed(key ebiten.Key) bool {
	return s.down[key] && !s.prev[key]
}
