package tui

import "github.com/ayusman/mudra/internal/engine"

// SnapshotMsg carries the render state after a frame or command.
type SnapshotMsg struct {
	Snapshot engine.Snapshot
}

// NoticeMsg carries a user-facing notice from the engine.
type NoticeMsg struct {
	Notice engine.Notice
}

// PipelineDoneMsg is sent when the capture pipeline has stopped.
type PipelineDoneMsg struct {
	Err error
}
