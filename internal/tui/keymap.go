package tui

import "github.com/ayusman/mudra/internal/engine"

// Key binding constants used in handleKey.
const (
	KeyQuit       = "q"
	KeyQuitUpper  = "Q"
	KeyEsc        = "esc"
	KeyCtrlC      = "ctrl+c"
	KeySpace      = " "
	KeyBackspace  = "backspace"
	KeyClearLast  = "c"
	KeyReset      = "r"
	KeyExportText = "s"
	KeyExportLog  = "S"
	KeyFaster     = "+"
	KeyFasterAlt  = "="
	KeySlower     = "-"
	KeySlowerAlt  = "_"
	KeySpeech     = "v"
	KeyHelp       = "h"
)

var keyCommands = map[string]engine.Command{
	KeyQuit:       engine.CommandQuit,
	KeyQuitUpper:  engine.CommandQuit,
	KeyEsc:        engine.CommandQuit,
	KeyCtrlC:      engine.CommandQuit,
	KeySpace:      engine.CommandSpace,
	KeyBackspace:  engine.CommandBackspace,
	KeyClearLast:  engine.CommandBackspace,
	KeyReset:      engine.CommandReset,
	KeyExportText: engine.CommandExportText,
	KeyExportLog:  engine.CommandExportLog,
	KeyFaster:     engine.CommandFaster,
	KeyFasterAlt:  engine.CommandFaster,
	KeySlower:     engine.CommandSlower,
	KeySlowerAlt:  engine.CommandSlower,
	KeySpeech:     engine.CommandToggleSpeech,
}

// CommandForKey maps a bubbletea key string to an engine command.
func CommandForKey(key string) (engine.Command, bool) {
	cmd, ok := keyCommands[key]
	return cmd, ok
}
