package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
)

type RmCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newStore  storeFactory
	loadToken func() (string, error)
}

func NewRmCommand(stdout, stderr io.Writer, newStore storeFactory, loadToken func() (string, error)) *RmCommand {
	return &RmCommand{
		stdout:    stdout,
		stderr:    stderr,
		newStore:  newStore,
		loadToken: loadToken,
	}
}

func (c *RmCommand) Run(args []string) error {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("rm requires a note id")
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
	// Load the current set first so the snapshot written after the
	// mutation holds the whole partition, not just this note.
	if err := store.FetchNotes(ctx, token); err != nil {
		return err
	}
	if err := store.DeleteNote(ctx, token, id); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "deleted note %d\n", id)
	return nil
}
