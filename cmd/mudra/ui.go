package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/tray"
	"github.com/ayusman/mudra/internal/tui"
)

// runHeadless runs the pipeline with log output only.
func runHeadless(ctx context.Context, a *app.App, logger zerolog.Logger) error {
	a.AddOutput(app.NewLogOutput(logger))
	return a.Run(ctx)
}

// runTUI runs the pipeline behind the terminal interface. The program
// exits once the pipeline reports it has stopped.
func runTUI(ctx context.Context, a *app.App, logger zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(tui.New(a), tea.WithAltScreen(), tea.WithContext(ctx))
	a.AddOutput(tui.NewOutput(p))

	done := make(chan error, 1)
	go func() {
		err := a.Run(ctx)
		p.Send(tui.PipelineDoneMsg{Err: err})
		done <- err
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("terminal ui failed")
	}

	// A forced quit leaves the pipeline running; cancel it so the final
	// export still happens.
	cancel()
	return <-done
}

// runTray runs the pipeline behind the system tray menu.
func runTray(ctx context.Context, a *app.App, cfg config.Config, logger zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	url := ""
	if cfg.HTTPAddr != "" {
		url = "http://" + cfg.HTTPAddr
	}

	t := tray.New(a, url)
	// Quit still ends the pipeline when the command queue is full.
	t.OnQuit(cancel)
	a.AddOutput(t)
	a.AddOutput(app.NewLogOutput(logger))

	done := make(chan error, 1)
	go func() {
		err := a.Run(ctx)
		done <- err
		t.Quit()
	}()

	go func() {
		<-ctx.Done()
		t.Quit()
	}()

	t.Run()

	cancel()
	return <-done
}
