package main

import (
	"io"
	"os"

	"quill/internal/api"
	"quill/internal/cache"
	"quill/internal/config"
	"quill/internal/logging"
	"quill/internal/notes"
)

type commandRunner interface {
	Run(args []string) error
}

// storeFactory builds a ready-to-use notes store. The returned cleanup
// closes the snapshot backend and must always be called.
type storeFactory func() (*notes.Store, func(), error)

type commandWiring struct {
	stdout    io.Writer
	stderr    io.Writer
	newStore  storeFactory
	loadToken func() (string, error)
	loadCfg   func() (config.Config, error)
	runUI     func() error
	version   string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:    stdout,
		stderr:    stderr,
		newStore:  newNotesStore,
		loadToken: config.LoadToken,
		loadCfg:   config.Load,
		runUI:     runTerminalUI,
		version:   buildVersion(),
	}
}

func newNotesStore() (*notes.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	cacheDir, err := config.CacheDir()
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := config.CacheDBPath()
	if err != nil {
		return nil, nil, err
	}
	snapshots, err := cache.Open(cfg.CacheBackend(), cache.Paths{
		Dir:    cacheDir,
		DBPath: dbPath,
	})
	if err != nil {
		return nil, nil, err
	}

	store := notes.NewStore(api.New(cfg.APIBaseURL()), snapshots, notes.Options{
		TTL:    cfg.CacheTTL(),
		Logger: logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel())),
	})
	cleanup := func() {
		_ = snapshots.Close()
	}
	return store, cleanup, nil
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"ls":        NewLsCommand(wiring.stdout, wiring.stderr, wiring.newStore, wiring.loadToken),
		"add":       NewAddCommand(wiring.stdout, wiring.stderr, wiring.newStore, wiring.loadToken),
		"edit":      NewEditCommand(wiring.stdout, wiring.stderr, wiring.newStore, wiring.loadToken),
		"rm":        NewRmCommand(wiring.stdout, wiring.stderr, wiring.newStore, wiring.loadToken),
		"archive":   NewArchiveCommand(wiring.stdout, wiring.stderr, wiring.newStore, wiring.loadToken, true),
		"unarchive": NewArchiveCommand(wiring.stdout, wiring.stderr, wiring.newStore, wiring.loadToken, false),
		"tag":       NewTagCommand(wiring.stdout, wiring.stderr, wiring.newStore, wiring.loadToken),
		"cat":       NewCatCommand(wiring.stdout, wiring.stderr, wiring.newStore, wiring.loadToken, wiring.loadCfg),
		"login":     NewLoginCommand(wiring.stdout, wiring.stderr),
		"config":    NewConfigCommand(wiring.stdout, wiring.stderr, wiring.loadCfg),
		"ui":        NewUICommand(wiring.stderr, wiring.runUI),
	}
}
