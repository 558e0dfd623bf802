package main

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"text/tabwriter"

	"quill/internal/types"
)

const version = "dev"

func printNotes(output io.Writer, notes []*types.Note) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tTITLE\tTAGS\tUPDATED")
	for _, note := range notes {
		updated := "-"
		if !note.UpdatedAt.IsZero() {
			updated = note.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\n", note.ID, note.Title, tagNames(note.Tags), updated)
	}
	_ = writer.Flush()
}

func tagNames(tags []*types.Tag) string {
	if len(tags) == 0 {
		return "-"
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == nil {
			continue
		}
		names = append(names, tag.Name)
	}
	return strings.Join(names, ",")
}

func findTag(tags []*types.Tag, name string) *types.Tag {
	for _, tag := range tags {
		if tag != nil && strings.EqualFold(tag.Name, name) {
			return tag
		}
	}
	return nil
}

func parseNoteID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id: %s", raw)
	}
	return id, nil
}

func requireToken(loadToken func() (string, error)) (string, error) {
	token, err := loadToken()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("no session: run `quill login` or set QUILL_TOKEN")
	}
	return token, nil
}

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}

	exe, err := os.Executable()
	if err == nil {
		file, err := os.Open(exe)
		if err == nil {
			defer file.Close()
			hasher := sha256.New()
			if _, err := io.Copy(hasher, file); err == nil {
				sum := hasher.Sum(nil)
				return fmt.Sprintf("bin-%x", sum[:6])
			}
		}
	}

	return version
}
