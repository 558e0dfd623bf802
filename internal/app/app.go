package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/cache"
	"quill/internal/logging"
	"quill/internal/notes"
)

// Options carries everything the UI needs; there is no global state.
type Options struct {
	Client    notes.API
	Snapshots cache.SnapshotStore
	Token     string
	TTL       time.Duration
	Theme     string
	Logger    logging.Logger
}

func Run(opts Options) error {
	if opts.Client == nil {
		return errors.New("api client is required")
	}
	if opts.Snapshots == nil {
		return errors.New("snapshot store is required")
	}

	// The auth handler fires from a command goroutine, so it hands the
	// signal to the program loop instead of touching the model.
	var program *tea.Program
	store := notes.NewStore(opts.Client, opts.Snapshots, notes.Options{
		TTL:    opts.TTL,
		Logger: opts.Logger,
		OnAuthError: func() {
			if program != nil {
				program.Send(sessionExpiredMsg{})
			}
		},
	})

	model := NewModel(store, opts.Token, opts.Theme, opts.Logger)
	program = tea.NewProgram(&model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
