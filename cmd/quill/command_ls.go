package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
)

type LsCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newStore  storeFactory
	loadToken func() (string, error)
}

func NewLsCommand(stdout, stderr io.Writer, newStore storeFactory, loadToken func() (string, error)) *LsCommand {
	return &LsCommand{
		stdout:    stdout,
		stderr:    stderr,
		newStore:  newStore,
		loadToken: loadToken,
	}
}

func (c *LsCommand) Run(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	archived := fs.Bool("archived", false, "list archived notes instead of active ones")
	tagName := fs.String("tag", "", "only notes carrying this tag")
	search := fs.String("search", "", "only notes matching this query in title, content, or tag names")
	asJSON := fs.Bool("json", false, "print notes as JSON")
	counts := fs.Bool("counts", false, "print active and archived note counts")
	if err := fs.Parse(args); err != nil {
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
	if *counts {
		if err := store.FetchNotes(ctx, token); err != nil {
			return err
		}
		active, _ := store.Counts()
		store.SetShowArchived(true)
		if err := store.FetchNotes(ctx, token); err != nil {
			return err
		}
		_, archivedCount := store.Counts()
		fmt.Fprintf(c.stdout, "active: %d\narchived: %d\n", active, archivedCount)
		return nil
	}

	store.SetShowArchived(*archived)
	if err := store.FetchNotes(ctx, token); err != nil {
		return err
	}
	if name := strings.TrimSpace(*tagName); name != "" {
		tag := findTag(store.AllTags(), name)
		if tag == nil {
			return fmt.Errorf("unknown tag: %s", name)
		}
		store.SelectTag(tag)
	}
	store.SetSearchQuery(*search)

	visible := store.Notes()
	if *asJSON {
		encoder := json.NewEncoder(c.stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(visible)
	}
	printNotes(c.stdout, visible)
	return nil
}
