package input

import (
	"github.com/milk9111/dragon/common"
	"github.com/milk9111/dragon/manager"
	"go.uber.org/zap"
)

// Manager turns keyboard messages into resolved command states and
// broadcasts them, together with the movement axis, to gameplay listeners.
// Consumers only see abstract commands, never physical keys.
type Manager struct {
	guard    manager.Guard
	log      *zap.Logger
	keyboard *Keyboard

	states []*CommandState

	listening  bool
	axisSub    common.ListenerID
	messageSub common.ListenerID

	axis             int
	axisListeners    common.Listeners[int]
	commandListeners common.Listeners[CommandSnapshot]
}

func NewManager(keyboard *Keyboard, log *zap.Logger) *Manager {
	if keyboard == nil {
		panic("input: manager requires a keyboard")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log.Named("input"), keyboard: keyboard}
}

// Init creates one state per command, starts listening to the keyboard and
// joins the update channel.
func (m *Manager) Init(root *manager.Root) {
	m.guard.Do(func() {
		m.states = make([]*CommandState, 0, commandCount)
		for _, cmd := range Commands() {
			m.states = append(m.states, NewCommandState(cmd))
		}
		m.SetListeningKeyboard(true)
		root.Scheduler().SetUpdating(m, true)
		m.log.Info("input manager initialized", zap.Int("commands", len(m.states)))
	})
}

// SetListeningKeyboard connects or disconnects the keyboard. While
// disconnected no keys are sampled, so commands settle to Release on the
// next Update or Settle.
func (m *Manager) SetListeningKeyboard(on bool) {
	if m.listening == on {
		return
	}
	m.listening = on
	if on {
		m.axisSub = m.keyboard.AddAxisListener(m.handleAxis)
		m.messageSub = m.keyboard.AddMessageListener(m.handleMessage)
		return
	}
	m.keyboard.RemoveAxisListener(m.axisSub)
	m.keyboard.RemoveMessageListener(m.messageSub)
	m.axisSub, m.messageSub = 0, 0
}

func (m *Manager) IsListeningKeyboard() bool {
	return m.listening
}

// Update runs one input tick: clear counters, sample keys, resolve and
// notify in command order.
func (m *Manager) Update(dt float64) {
	m.resolve(dt, m.listening)
}

// Settle resolves every command without sampling, so held commands drop to
// Release and listeners hear it. Hold time is left untouched.
func (m *Manager) Settle() {
	m.resolve(0, false)
}

func (m *Manager) resolve(dt float64, sample bool) {
	for _, s := range m.states {
		s.ResetCounts()
	}
	if sample {
		m.keyboard.Sample()
	}
	for _, s := range m.states {
		if s.Resolve(dt) {
			snap := s.Snapshot()
			if snap.State != Hold {
				m.log.Debug("command state changed",
					zap.Stringer("command", snap.Command),
					zap.Stringer("state", snap.State),
					zap.Float64("hold_time", snap.HoldTime))
			}
			m.commandListeners.Emit(snap)
		}
	}
}

// State returns the current snapshot for cmd. Unknown commands report a
// released state.
func (m *Manager) State(cmd Command) CommandSnapshot {
	if s := m.lookup(cmd); s != nil {
		return s.Snapshot()
	}
	return CommandSnapshot{Command: cmd, State: Release}
}

// Axis is the last horizontal intent broadcast.
func (m *Manager) Axis() int {
	return m.axis
}

func (m *Manager) lookup(cmd Command) *CommandState {
	if !cmd.Valid() || int(cmd) >= len(m.states) {
		return nil
	}
	return m.states[cmd]
}

func (m *Manager) handleMessage(msg Message) {
	if s := m.lookup(msg.Command); s != nil {
		s.Handle(msg)
	}
}

func (m *Manager) handleAxis(x int) {
	m.axis = x
	m.axisListeners.Emit(x)
}

func (m *Manager) AddAxisListener(fn func(int)) common.ListenerID {
	return m.axisListeners.Add(fn)
}

func (m *Manager) RemoveAxisListener(id common.ListenerID) {
	m.axisListeners.Remove(id)
}

func (m *Manager) AddCommandListener(fn func(CommandSnapshot)) common.ListenerID {
	return m.commandListeners.Add(fn)
}

func (m *Manager) RemoveCommandListener(id common.ListenerID) {
	m.commandListeners.Remove(id)
}
