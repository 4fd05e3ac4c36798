package input

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dragon/common"
	"github.com/milk9111/dragon/manager"
	"github.com/milk9111/dragon/prefabs"
	"go.uber.org/zap"
)

// Binding maps one physical key to a command.
type Binding struct {
	Key     ebiten.Key
	Command Command
}

// AxisKeys are the two opposing keys that form the horizontal axis.
type AxisKeys struct {
	Negative ebiten.Key
	Positive ebiten.Key
}

// Layout is the static key table installed when the keyboard initializes.
type Layout struct {
	Bindings []Binding
	Axis     AxisKeys
}

// DefaultLayout is A/D for movement plus the action cluster on the right hand.
func DefaultLayout() Layout {
	return Layout{
		Axis: AxisKeys{Negative: ebiten.KeyA, Positive: ebiten.KeyD},
		Bindings: []Binding{
			{Key: ebiten.KeyA, Command: None},
			{Key: ebiten.KeyD, Command: None},
			{Key: ebiten.KeyW, Command: LiftUp},
			{Key: ebiten.KeyJ, Command: Attack},
			{Key: ebiten.KeyK, Command: Dodge},
			{Key: ebiten.KeyL, Command: Item},
			{Key: ebiten.KeyU, Command: LiftUp},
			{Key: ebiten.KeyI, Command: Skill},
			{Key: ebiten.KeyO, Command: Burst},
		},
	}
}

// LayoutFromSpec converts a bindings spec into a Layout.
func LayoutFromSpec(spec *prefabs.BindingsSpec) (Layout, error) {
	if spec == nil {
		return DefaultLayout(), nil
	}
	var layout Layout
	var err error
	if layout.Axis.Negative, err = ParseKey(spec.Axis.Negative); err != nil {
		return Layout{}, fmt.Errorf("input: axis negative: %w", err)
	}
	if layout.Axis.Positive, err = ParseKey(spec.Axis.Positive); err != nil {
		return Layout{}, fmt.Errorf("input: axis positive: %w", err)
	}
	for _, b := range spec.Keys {
		key, err := ParseKey(b.Key)
		if err != nil {
			return Layout{}, fmt.Errorf("input: binding %q: %w", b.Key, err)
		}
		cmd, err := ParseCommand(b.Command)
		if err != nil {
			return Layout{}, fmt.Errorf("input: binding %q: %w", b.Key, err)
		}
		layout.Bindings = append(layout.Bindings, Binding{Key: key, Command: cmd})
	}
	return layout, nil
}

type keyBuffer struct {
	key ebiten.Key
	msg Message
}

// Keyboard samples every bound key once per tick and forwards the resulting
// messages synchronously. It does not tick on its own; the input manager
// drives Sample from its update.
type Keyboard struct {
	guard  manager.Guard
	log    *zap.Logger
	src    KeySource
	layout Layout

	buffers []*keyBuffer
	byKey   map[ebiten.Key]*keyBuffer
	axis    int

	messages      common.Listeners[Message]
	axisListeners common.Listeners[int]
}

func NewKeyboard(src KeySource, layout Layout, log *zap.Logger) *Keyboard {
	if src == nil {
		panic("input: keyboard requires a key source")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Keyboard{
		log:    log.Named("keyboard"),
		src:    src,
		layout: layout,
		byKey:  make(map[ebiten.Key]*keyBuffer),
	}
}

// Init installs the layout. The axis keys are bound to None when the layout
// leaves them out.
func (k *Keyboard) Init(root *manager.Root) {
	k.guard.Do(func() {
		for _, b := range k.layout.Bindings {
			k.Bind(b.Key, b.Command)
		}
		for _, key := range []ebiten.Key{k.layout.Axis.Negative, k.layout.Axis.Positive} {
			if _, ok := k.byKey[key]; !ok {
				k.Bind(key, None)
			}
		}
		k.log.Info("keyboard bound", zap.Int("keys", len(k.buffers)))
	})
}

// Bind adds key to the table. A key that is already bound keeps its first
// command and Bind reports false.
func (k *Keyboard) Bind(key ebiten.Key, cmd Command) bool {
	if _, ok := k.byKey[key]; ok {
		k.log.Warn("duplicate key binding ignored",
			zap.String("key", KeyName(key)),
			zap.Stringer("command", cmd))
		return false
	}
	buf := &keyBuffer{key: key, msg: Message{Command: cmd, State: Release}}
	k.buffers = append(k.buffers, buf)
	k.byKey[key] = buf
	return true
}

// SetSource swaps the raw key provider, e.g. for scripted playback.
func (k *Keyboard) SetSource(src KeySource) {
	if src != nil {
		k.src = src
	}
}

// Sample reads every bound key, forwards one message per key with a
// command, then publishes the axis once.
func (k *Keyboard) Sample() {
	for _, buf := range k.buffers {
		buf.msg.State = sampleKey(k.src, buf.key)
		if buf.msg.Command != None {
			k.messages.Emit(buf.msg)
		}
	}

	k.axis = 0
	if s, ok := k.KeyState(k.layout.Axis.Negative); ok && s != Release {
		k.axis--
	}
	if s, ok := k.KeyState(k.layout.Axis.Positive); ok && s != Release {
		k.axis++
	}
	k.axisListeners.Emit(k.axis)
}

// KeyState returns the state sampled for key on the last tick.
func (k *Keyboard) KeyState(key ebiten.Key) (State, bool) {
	buf, ok := k.byKey[key]
	if !ok {
		return Release, false
	}
	return buf.msg.State, true
}

// Axis is the horizontal intent from the last sample: -1, 0 or 1.
func (k *Keyboard) Axis() int {
	return k.axis
}

// Bindings returns the installed table in binding order.
func (k *Keyboard) Bindings() []Binding {
	out := make([]Binding, 0, len(k.buffers))
	for _, buf := range k.buffers {
		out = append(out, Binding{Key: buf.key, Command: buf.msg.Command})
	}
	return out
}

func (k *Keyboard) AddMessageListener(fn func(Message)) common.ListenerID {
	return k.messages.Add(fn)
}

func (k *Keyboard) RemoveMessageListener(id common.ListenerID) {
	k.messages.Remove(id)
}

func (k *Keyboard) AddAxisListener(fn func(int)) common.ListenerID {
	return k.axisListeners.Add(fn)
}

func (k *Keyboard) RemoveAxisListener(id common.ListenerID) {
	k.axisListeners.Remove(id)
}
