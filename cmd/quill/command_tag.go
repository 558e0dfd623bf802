package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

type TagCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newStore  storeFactory
	loadToken func() (string, error)
}

func NewTagCommand(stdout, stderr io.Writer, newStore storeFactory, loadToken func() (string, error)) *TagCommand {
	return &TagCommand{
		stdout:    stdout,
		stderr:    stderr,
		newStore:  newStore,
		loadToken: loadToken,
	}
}

func (c *TagCommand) Run(args []string) error {
	fs := flag.NewFlagSet("tag", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("tag requires a note id and at least one tag name")
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
	note, err := store.AddTagsToNote(ctx, token, id, strings.Join(fs.Args()[1:], ","))
	if err != nil {
		return err
	}
	if note == nil {
		return errors.New("no tag names given")
	}
	fmt.Fprintf(c.stdout, "note %d tags: %s\n", note.ID, tagNames(note.Tags))
	return nil
}
