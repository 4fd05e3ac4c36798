package input

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("input: unknown command")
	ErrUnknownState   = errors.New("input: unknown input state")
	ErrUnknownKey     = errors.New("input: unknown key")
)

// Command is an abstract player action, independent of the physical key.
type Command int

const (
	None Command = iota
	Attack
	Dodge
	LiftUp
	Skill
	Item
	Burst
	commandCount
)

var commandNames = [commandCount]string{
	None:   "none",
	Attack: "attack",
	Dodge:  "dodge",
	LiftUp: "lift_up",
	Skill:  "skill",
	Item:   "item",
	Burst:  "burst",
}

// Commands lists every command in declaration order.
func Commands() []Command {
	out := make([]Command, 0, commandCount)
	for c := None; c < commandCount; c++ {
		out = append(out, c)
	}
	return out
}

func (c Command) Valid() bool {
	return c >= None && c < commandCount
}

func (c Command) String() string {
	if !c.Valid() {
		return fmt.Sprintf("command(%d)", int(c))
	}
	return commandNames[c]
}

func (c Command) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCommand, int(c))
	}
	return []byte(commandNames[c]), nil
}

func (c *Command) UnmarshalText(text []byte) error {
	cmd, err := ParseCommand(string(text))
	if err != nil {
		return err
	}
	*c = cmd
	return nil
}

// ParseCommand accepts the snake_case name of a command, case-insensitively.
func ParseCommand(s string) (Command, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range commandNames {
		if n == name {
			return Command(c), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// State is the resolved input state of a key or command for one tick.
type State int

const (
	Release State = iota
	Press
	Hold
)

func (s State) String() string {
	switch s {
	case Release:
		return "release"
	case Press:
		return "press"
	case Hold:
		return "hold"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	switch s {
	case Release, Press, Hold:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownState, int(s))
}

func (s *State) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "release":
		*s = Release
	case "press":
		*s = Press
	case "hold":
		*s = Hold
	default:
		return fmt.Errorf("%w: %q", ErrUnknownState, string(text))
	}
	return nil
}

// Message is one key observation for one tick.
type Message struct {
	Command Command
	State   State
}
