package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"quill/internal/types"
)

type EditCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newStore  storeFactory
	loadToken func() (string, error)
}

func NewEditCommand(stdout, stderr io.Writer, newStore storeFactory, loadToken func() (string, error)) *EditCommand {
	return &EditCommand{
		stdout:    stdout,
		stderr:    stderr,
		newStore:  newStore,
		loadToken: loadToken,
	}
}

func (c *EditCommand) Run(args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	title := fs.String("title", "", "new title")
	content := fs.String("content", "", "new content")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("edit requires a note id")
	}
	id, err := parseNoteID(fs.Arg(0))
	if err != nil {
		return err
	}

	// Only fields the caller actually passed go into the patch; an empty
	// string is a legitimate new value.
	var patch types.NotePatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			patch.Title = title
		case "content":
			patch.Content = content
		}
	})
	if patch.Title == nil && patch.Content == nil {
		return errors.New("edit requires --title or --content")
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
	note, err := store.UpdateNote(ctx, token, id, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "updated note %d: %s\n", note.ID, note.Title)
	return nil
}
