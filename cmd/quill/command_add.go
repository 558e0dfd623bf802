package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"quill/internal/types"
)

type AddCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newStore  storeFactory
	loadToken func() (string, error)
}

func NewAddCommand(stdout, stderr io.Writer, newStore storeFactory, loadToken func() (string, error)) *AddCommand {
	return &AddCommand{
		stdout:    stdout,
		stderr:    stderr,
		newStore:  newStore,
		loadToken: loadToken,
	}
}

func (c *AddCommand) Run(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	title := fs.String("title", "", "note title")
	content := fs.String("content", "", "note content")
	tags := fs.String("tags", "", "comma-separated tag names to attach")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*title) == "" {
		return errors.New("add requires --title")
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
	note, err := store.CreateNote(ctx, token, types.NoteCreate{
		Title:   strings.TrimSpace(*title),
		Content: *content,
	})
	if err != nil {
		return err
	}
	if strings.TrimSpace(*tags) != "" {
		note, err = store.AddTagsToNote(ctx, token, note.ID, *tags)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(c.stdout, "created note %d: %s\n", note.ID, note.Title)
	return nil
}
