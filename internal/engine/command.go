package engine

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned when a command name is not recognized.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a discrete user action applied to the engine.
type Command int

// Commands understood by Dispatch.
const (
	CommandQuit Command = iota + 1
	CommandSpace
	CommandBackspace
	CommandReset
	CommandExportText
	CommandExportLog
	CommandFaster
	CommandSlower
	CommandToggleSpeech
)

var commandNames = map[Command]string{
	CommandQuit:         "quit",
	CommandSpace:        "space",
	CommandBackspace:    "backspace",
	CommandReset:        "reset",
	CommandExportText:   "export-text",
	CommandExportLog:    "export-log",
	CommandFaster:       "faster",
	CommandSlower:       "slower",
	CommandToggleSpeech: "toggle-speech",
}

// AllCommands returns every command in declaration order.
func AllCommands() []Command {
	return []Command{
		CommandQuit,
		CommandSpace,
		CommandBackspace,
		CommandReset,
		CommandExportText,
		CommandExportLog,
		CommandFaster,
		CommandSlower,
		CommandToggleSpeech,
	}
}

// String returns the command name.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// ParseCommand returns the command with the given name.
func ParseCommand(name string) (Command, error) {
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// MarshalText implements encoding.TextMarshaler.
func (c Command) MarshalText() ([]byte, error) {
	name, ok := commandNames[c]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCommand, int(c))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Command) UnmarshalText(text []byte) error {
	parsed, err := ParseCommand(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
