package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
)

// ArchiveCommand serves both archive and unarchive; the two differ only in
// the direction of the flag flip.
type ArchiveCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newStore  storeFactory
	loadToken func() (string, error)
	archive   bool
}

func NewArchiveCommand(stdout, stderr io.Writer, newStore storeFactory, loadToken func() (string, error), archive bool) *ArchiveCommand {
	return &ArchiveCommand{
		stdout:    stdout,
		stderr:    stderr,
		newStore:  newStore,
		loadToken: loadToken,
		archive:   archive,
	}
}

func (c *ArchiveCommand) name() string {
	if c.archive {
		return "archive"
	}
	return "unarchive"
}

func (c *ArchiveCommand) Run(args []string) error {
	fs := flag.NewFlagSet(c.name(), flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New(c.name() + " requires a note id")
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
	if c.archive {
		if _, err := store.ArchiveNote(ctx, token, id); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "archived note %d\n", id)
		return nil
	}
	if _, err := store.UnarchiveNote(ctx, token, id); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "restored note %d\n", id)
	return nil
}
