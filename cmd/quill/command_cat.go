package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"quill/internal/config"
	"quill/internal/types"
)

type CatCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newStore  storeFactory
	loadToken func() (string, error)
	loadCfg   func() (config.Config, error)
}

func NewCatCommand(stdout, stderr io.Writer, newStore storeFactory, loadToken func() (string, error), loadCfg func() (config.Config, error)) *CatCommand {
	return &CatCommand{
		stdout:    stdout,
		stderr:    stderr,
		newStore:  newStore,
		loadToken: loadToken,
		loadCfg:   loadCfg,
	}
}

func (c *CatCommand) Run(args []string) error {
	fs := flag.NewFlagSet("cat", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	plain := fs.Bool("plain", false, "print raw content without markdown rendering")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("cat requires a note id")
	}
	id, err := parseNoteID(fs.Arg(0))
	if err != nil {
		return err
	}

	token, err := requireToken(c.loadToken)
	if err != nil {
		return err
	}
	store, cleanup, err := c.newStore()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if err := store.FetchNotes(ctx, token); err != nil {
		return err
	}
	note := store.NoteByID(id)
	if note == nil {
		// The note may live in the other partition.
		store.SetShowArchived(true)
		if err := store.FetchNotes(ctx, token); err != nil {
			return err
		}
		note = store.NoteByID(id)
	}
	if note == nil {
		return fmt.Errorf("note %d not found", id)
	}

	fmt.Fprintf(c.stdout, "# %s\n", note.Title)
	if names := tagNames(note.Tags); names != "-" {
		fmt.Fprintf(c.stdout, "tags: %s\n", names)
	}
	fmt.Fprintln(c.stdout)
	if *plain {
		fmt.Fprintln(c.stdout, note.Content)
		return nil
	}
	return c.renderMarkdown(note)
}

func (c *CatCommand) renderMarkdown(note *types.Note) error {
	theme := "dark"
	if cfg, err := c.loadCfg(); err == nil {
		theme = cfg.Theme()
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Rendering is cosmetic; fall back to raw content.
		fmt.Fprintln(c.stdout, note.Content)
		return nil
	}
	rendered, err := renderer.Render(note.Content)
	if err != nil {
		fmt.Fprintln(c.stdout, note.Content)
		return nil
	}
	fmt.Fprint(c.stdout, rendered)
	return nil
}
