package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/engine"
)

// CommandSink accepts commands for the pipeline. Send must not block and
// reports false when the command was dropped.
type CommandSink interface {
	Send(cmd engine.Command) bool
}

type commandRequest struct {
	Command string `json:"command"`
}

type commandResponse struct {
	Command string `json:"command"`
	Queued  bool   `json:"queued"`
}

type listCommandsResponse struct {
	Commands []string `json:"commands"`
}

// CommandHandler queues user commands received over HTTP.
type CommandHandler struct {
	sink CommandSink
}

// NewCommandHandler creates a CommandHandler that forwards to sink.
func NewCommandHandler(sink CommandSink) *CommandHandler {
	return &CommandHandler{sink: sink}
}

// ServeHTTP handles GET and POST /api/commands.
func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w)
	case http.MethodPost:
		h.send(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// list returns the command names the endpoint accepts.
func (h *CommandHandler) list(w http.ResponseWriter) {
	all := engine.AllCommands()
	response := listCommandsResponse{Commands: make([]string, 0, len(all))}
	for _, c := range all {
		response.Commands = append(response.Commands, c.String())
	}
	writeJSON(w, http.StatusOK, response)
}

// send parses a command and queues it. The command is applied by the
// pipeline on a later frame, hence 202.
func (h *CommandHandler) send(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	cmd, err := engine.ParseCommand(req.Command)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownCommand) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to parse command")
		return
	}

	if !h.sink.Send(cmd) {
		writeError(w, http.StatusServiceUnavailable, "Command queue full")
		return
	}

	writeJSON(w, http.StatusAccepted, commandResponse{Command: cmd.String(), Queued: true})
}
