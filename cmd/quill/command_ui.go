package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"

	"quill/internal/api"
	"quill/internal/app"
	"quill/internal/cache"
	"quill/internal/config"
	"quill/internal/logging"
)

type UICommand struct {
	stderr io.Writer
	runUI  func() error
}

func NewUICommand(stderr io.Writer, runUI func() error) *UICommand {
	return &UICommand{
		stderr: stderr,
		runUI:  runUI,
	}
}

func (c *UICommand) Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.runUI()
}

func runTerminalUI() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cacheDir, err := config.CacheDir()
	if err != nil {
		return err
	}
	dbPath, err := config.CacheDBPath()
	if err != nil {
		return err
	}
	snapshots, err := cache.Open(cfg.CacheBackend(), cache.Paths{
		Dir:    cacheDir,
		DBPath: dbPath,
	})
	if err != nil {
		return err
	}
	defer snapshots.Close()

	token, err := config.LoadToken()
	if err != nil {
		return err
	}

	return app.Run(app.Options{
		Client:    api.New(cfg.APIBaseURL()),
		Snapshots: snapshots,
		Token:     token,
		TTL:       cfg.CacheTTL(),
		Theme:     cfg.Theme(),
		Logger:    uiLogger(cfg.LogLevel()),
	})
}

// uiLogger writes to a file so log lines never tear the alternate screen.
func uiLogger(level string) logging.Logger {
	dataDir, err := config.DataDir()
	if err != nil {
		return logging.Nop()
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return logging.Nop()
	}
	file, err := os.OpenFile(filepath.Join(dataDir, "ui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return logging.Nop()
	}
	return logging.New(file, logging.ParseLevel(level))
}
