package input

// CommandSnapshot is the value handed to command listeners.
type CommandSnapshot struct {
	Command  Command
	State    State
	HoldTime float64
}

// CommandState resolves the raw key messages of one command into a single
// state per tick. Several keys may feed the same command; their counts are
// summed before resolution, and Press wins over Hold wins over Release.
type CommandState struct {
	command  Command
	current  State
	holdTime float64

	pressCount int
	holdCount  int
}

func NewCommandState(cmd Command) *CommandState {
	return &CommandState{command: cmd, current: Release}
}

func (s *CommandState) Command() Command  { return s.command }
func (s *CommandState) Current() State    { return s.current }
func (s *CommandState) HoldTime() float64 { return s.holdTime }

func (s *CommandState) Snapshot() CommandSnapshot {
	return CommandSnapshot{Command: s.command, State: s.current, HoldTime: s.holdTime}
}

// ResetCounts clears this tick's counters. Call before sampling.
func (s *CommandState) ResetCounts() {
	s.pressCount = 0
	s.holdCount = 0
}

// Handle counts one key observation.
func (s *CommandState) Handle(msg Message) {
	switch msg.State {
	case Press:
		s.pressCount++
	case Hold:
		s.holdCount++
	}
}

// Resolve settles this tick's state and reports whether listeners must be
// told: on any change, and on every tick that stays in Hold.
//
// HoldTime restarts at dt on a Press, so the press tick counts as the first
// slice of hold time, and grows by dt on each later non-Release tick. A Hold
// that arrives without a preceding Press (the key was already down when
// sampling started) restarts it the same way. Release leaves the last total.
func (s *CommandState) Resolve(dt float64) bool {
	next := Release
	switch {
	case s.pressCount > 0:
		next = Press
	case s.holdCount > 0:
		next = Hold
	}

	prev := s.current
	switch {
	case next == Press, next == Hold && prev == Release:
		s.holdTime = dt
	case next == Hold:
		s.holdTime += dt
	}

	s.current = next
	return prev != next || next == Hold
}
