package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quill/internal/cache"
	"quill/internal/config"
	"quill/internal/notes"
	"quill/internal/types"
)

type fakeNotesAPI struct {
	listFn   func(ctx context.Context, token string, archived bool) ([]*types.Note, error)
	createFn func(ctx context.Context, token string, payload types.NoteCreate) (*types.Note, error)
	updateFn func(ctx context.Context, token string, id int, patch types.NotePatch) (*types.Note, error)
	deleteFn func(ctx context.Context, token string, id int) error
	attachFn func(ctx context.Context, token string, id int, names []string) (*types.Note, error)
}

func (f *fakeNotesAPI) ListNotes(ctx context.Context, token string, archived bool) ([]*types.Note, error) {
	if f.listFn == nil {
		return []*types.Note{}, nil
	}
	return f.listFn(ctx, token, archived)
}

func (f *fakeNotesAPI) CreateNote(ctx context.Context, token string, payload types.NoteCreate) (*types.Note, error) {
	if f.createFn == nil {
		return nil, errors.New("unexpected CreateNote call")
	}
	return f.createFn(ctx, token, payload)
}

func (f *fakeNotesAPI) UpdateNote(ctx context.Context, token string, id int, patch types.NotePatch) (*types.Note, error) {
	if f.updateFn == nil {
		return nil, errors.New("unexpected UpdateNote call")
	}
	return f.updateFn(ctx, token, id, patch)
}

func (f *fakeNotesAPI) DeleteNote(ctx context.Context, token string, id int) error {
	if f.deleteFn == nil {
		return errors.New("unexpected DeleteNote call")
	}
	return f.deleteFn(ctx, token, id)
}

func (f *fakeNotesAPI) AttachTags(ctx context.Context, token string, id int, names []string) (*types.Note, error) {
	if f.attachFn == nil {
		return nil, errors.New("unexpected AttachTags call")
	}
	return f.attachFn(ctx, token, id, names)
}

func fixedFactory(t *testing.T, notesAPI notes.API) storeFactory {
	t.Helper()
	return func() (*notes.Store, func(), error) {
		store := notes.NewStore(notesAPI, cache.NewFileStore(t.TempDir()), notes.Options{})
		return store, func() {}, nil
	}
}

// sharedFactory hands every command a fresh store over one cache
// directory, the way consecutive CLI invocations share state on disk.
func sharedFactory(t *testing.T, notesAPI notes.API) storeFactory {
	t.Helper()
	dir := t.TempDir()
	return func() (*notes.Store, func(), error) {
		store := notes.NewStore(notesAPI, cache.NewFileStore(dir), notes.Options{})
		return store, func() {}, nil
	}
}

func fixedToken() (string, error) {
	return "test-token", nil
}

func noToken() (string, error) {
	return "", nil
}

func sampleNote(id int, title string, tags ...*types.Tag) *types.Note {
	return &types.Note{ID: id, Title: title, Content: "content of " + title, Tags: tags}
}

func TestLsCommandPrintsTable(t *testing.T) {
	stdout := &bytes.Buffer{}
	fake := &fakeNotesAPI{
		listFn: func(ctx context.Context, token string, archived bool) ([]*types.Note, error) {
			return []*types.Note{
				sampleNote(1, "Standup notes", &types.Tag{ID: 1, Name: "work"}),
				sampleNote(2, "Groceries"),
			}, nil
		},
	}
	cmd := NewLsCommand(stdout, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken)

	if err := cmd.Run(nil); err != nil {
		t.Fatalf("expected ls to succeed, got err=%v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "ID") || !strings.Contains(out, "TITLE") {
		t.Fatalf("expected header in output, got %q", out)
	}
	if !strings.Contains(out, "Standup notes") || !strings.Contains(out, "work") {
		t.Fatalf("expected note rows in output, got %q", out)
	}
}

func TestLsCommandJSON(t *testing.T) {
	stdout := &bytes.Buffer{}
	fake := &fakeNotesAPI{
		listFn: func(ctx context.Context, token string, archived bool) ([]*types.Note, error) {
			return []*types.Note{sampleNote(1, "A")}, nil
		},
	}
	cmd := NewLsCommand(stdout, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken)

	if err := cmd.Run([]string{"--json"}); err != nil {
		t.Fatalf("expected ls to succeed, got err=%v", err)
	}
	var decoded []*types.Note
	if err := json.Unmarshal(stdout.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}
	if len(decoded) != 1 || decoded[0].Title != "A" {
		t.Fatalf("unexpected notes: %#v", decoded)
	}
}

func TestLsCommandTagFilter(t *testing.T) {
	stdout := &bytes.Buffer{}
	work := &types.Tag{ID: 1, Name: "work"}
	fake := &fakeNotesAPI{
		listFn: func(ctx context.Context, token string, archived bool) ([]*types.Note, error) {
			return []*types.Note{
				sampleNote(1, "Tagged", work),
				sampleNote(2, "Untagged"),
			}, nil
		},
	}
	cmd := NewLsCommand(stdout, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken)

	if err := cmd.Run([]string{"--tag", "Work"}); err != nil {
		t.Fatalf("expected ls to succeed, got err=%v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "Tagged") || strings.Contains(out, "Untagged") {
		t.Fatalf("tag filter not applied: %q", out)
	}
}

func TestLsCommandUnknownTag(t *testing.T) {
	fake := &fakeNotesAPI{}
	cmd := NewLsCommand(&bytes.Buffer{}, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken)

	err := cmd.Run([]string{"--tag", "nope"})
	if err == nil || !strings.Contains(err.Error(), "unknown tag") {
		t.Fatalf("expected unknown tag error, got %v", err)
	}
}

func TestLsCommandCounts(t *testing.T) {
	stdout := &bytes.Buffer{}
	fake := &fakeNotesAPI{
		listFn: func(ctx context.Context, token string, archived bool) ([]*types.Note, error) {
			if archived {
				return []*types.Note{{ID: 3, Title: "old", IsArchived: true}}, nil
			}
			return []*types.Note{sampleNote(1, "A"), sampleNote(2, "B")}, nil
		},
	}
	cmd := NewLsCommand(stdout, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken)

	if err := cmd.Run([]string{"--counts"}); err != nil {
		t.Fatalf("expected ls to succeed, got err=%v", err)
	}
	if got := stdout.String(); got != "active: 2\narchived: 1\n" {
		t.Fatalf("unexpected counts output: %q", got)
	}
}

func TestLsCommandRequiresSession(t *testing.T) {
	cmd := NewLsCommand(&bytes.Buffer{}, &bytes.Buffer{}, fixedFactory(t, &fakeNotesAPI{}), noToken)

	err := cmd.Run(nil)
	if err == nil || !strings.Contains(err.Error(), "quill login") {
		t.Fatalf("expected session error, got %v", err)
	}
}

func TestAddCommandCreatesAndTags(t *testing.T) {
	stdout := &bytes.Buffer{}
	var attached []string
	fake := &fakeNotesAPI{
		createFn: func(ctx context.Context, token string, payload types.NoteCreate) (*types.Note, error) {
			return &types.Note{ID: 7, Title: payload.Title, Content: payload.Content}, nil
		},
		attachFn: func(ctx context.Context, token string, id int, names []string) (*types.Note, error) {
			attached = names
			return &types.Note{ID: id, Title: "Groceries", Tags: []*types.Tag{{ID: 1, Name: "errands"}}}, nil
		},
	}
	cmd := NewAddCommand(stdout, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken)

	if err := cmd.Run([]string{"--title", "Groceries", "--content", "milk", "--tags", "errands"}); err != nil {
		t.Fatalf("expected add to succeed, got err=%v", err)
	}
	if len(attached) != 1 || attached[0] != "errands" {
		t.Fatalf("unexpected attached names: %v", attached)
	}
	if !strings.Contains(stdout.String(), "created note 7") {
		t.Fatalf("unexpected output: %q", stdout.String())
	}
}

func TestAddCommandRequiresTitle(t *testing.T) {
	cmd := NewAddCommand(&bytes.Buffer{}, &bytes.Buffer{}, fixedFactory(t, &fakeNotesAPI{}), fixedToken)

	if err := cmd.Run([]string{"--content", "body"}); err == nil {
		t.Fatalf("expected error without title")
	}
}

func TestEditCommandPatchesOnlyGivenFields(t *testing.T) {
	stdout := &bytes.Buffer{}
	var got types.NotePatch
	fake := &fakeNotesAPI{
		updateFn: func(ctx context.Context, token string, id int, patch types.NotePatch) (*types.Note, error) {
			got = patch
			return &types.Note{ID: id, Title: "Renamed"}, nil
		},
	}
	cmd := NewEditCommand(stdout, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken)

	if err := cmd.Run([]string{"--title", "Renamed", "3"}); err != nil {
		t.Fatalf("expected edit to succeed, got err=%v", err)
	}
	if got.Title == nil || *got.Title != "Renamed" {
		t.Fatalf("title missing from patch: %#v", got)
	}
	if got.Content != nil {
		t.Fatalf("content must stay unset: %#v", got)
	}
}

func TestEditCommandRequiresChange(t *testing.T) {
	cmd := NewEditCommand(&bytes.Buffer{}, &bytes.Buffer{}, fixedFactory(t, &fakeNotesAPI{}), fixedToken)

	if err := cmd.Run([]string{"3"}); err == nil {
		t.Fatalf("expected error without patch flags")
	}
}

func TestRmCommand(t *testing.T) {
	stdout := &bytes.Buffer{}
	deleted := 0
	fake := &fakeNotesAPI{
		deleteFn: func(ctx context.Context, token string, id int) error {
			deleted = id
			return nil
		},
	}
	cmd := NewRmCommand(stdout, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken)

	if err := cmd.Run([]string{"5"}); err != nil {
		t.Fatalf("expected rm to succeed, got err=%v", err)
	}
	if deleted != 5 {
		t.Fatalf("unexpected deleted id: %d", deleted)
	}
}

func TestRmCommandRefreshesSharedSnapshot(t *testing.T) {
	listCalls := 0
	fake := &fakeNotesAPI{
		listFn: func(ctx context.Context, token string, archived bool) ([]*types.Note, error) {
			listCalls++
			return []*types.Note{sampleNote(1, "Standup"), sampleNote(2, "Groceries")}, nil
		},
		deleteFn: func(ctx context.Context, token string, id int) error {
			return nil
		},
	}
	factory := sharedFactory(t, fake)

	if err := NewLsCommand(&bytes.Buffer{}, &bytes.Buffer{}, factory, fixedToken).Run(nil); err != nil {
		t.Fatalf("ls: %v", err)
	}
	if err := NewRmCommand(&bytes.Buffer{}, &bytes.Buffer{}, factory, fixedToken).Run([]string{"1"}); err != nil {
		t.Fatalf("rm: %v", err)
	}
	stdout := &bytes.Buffer{}
	if err := NewLsCommand(stdout, &bytes.Buffer{}, factory, fixedToken).Run(nil); err != nil {
		t.Fatalf("ls: %v", err)
	}

	if listCalls != 1 {
		t.Fatalf("expected rm and the second ls to run off the snapshot, got %d calls", listCalls)
	}
	out := stdout.String()
	if strings.Contains(out, "Standup") {
		t.Fatalf("deleted note still listed from cache: %q", out)
	}
	if !strings.Contains(out, "Groceries") {
		t.Fatalf("surviving note missing: %q", out)
	}
}

func TestAddCommandKeepsSnapshotComplete(t *testing.T) {
	listCalls := 0
	fake := &fakeNotesAPI{
		listFn: func(ctx context.Context, token string, archived bool) ([]*types.Note, error) {
			listCalls++
			return []*types.Note{sampleNote(1, "Standup"), sampleNote(2, "Groceries")}, nil
		},
		createFn: func(ctx context.Context, token string, payload types.NoteCreate) (*types.Note, error) {
			return &types.Note{ID: 3, Title: payload.Title}, nil
		},
	}
	factory := sharedFactory(t, fake)

	if err := NewAddCommand(&bytes.Buffer{}, &bytes.Buffer{}, factory, fixedToken).Run([]string{"--title", "Journal"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	stdout := &bytes.Buffer{}
	if err := NewLsCommand(stdout, &bytes.Buffer{}, factory, fixedToken).Run(nil); err != nil {
		t.Fatalf("ls: %v", err)
	}

	if listCalls != 1 {
		t.Fatalf("expected one network fetch, got %d", listCalls)
	}
	out := stdout.String()
	for _, title := range []string{"Standup", "Groceries", "Journal"} {
		if !strings.Contains(out, title) {
			t.Fatalf("note %q missing after add: %q", title, out)
		}
	}
}

func TestRmCommandRejectsBadID(t *testing.T) {
	cmd := NewRmCommand(&bytes.Buffer{}, &bytes.Buffer{}, fixedFactory(t, &fakeNotesAPI{}), fixedToken)

	if err := cmd.Run([]string{"abc"}); err == nil {
		t.Fatalf("expected invalid id error")
	}
}

func TestArchiveCommands(t *testing.T) {
	var patches []types.NotePatch
	fake := &fakeNotesAPI{
		updateFn: func(ctx context.Context, token string, id int, patch types.NotePatch) (*types.Note, error) {
			patches = append(patches, patch)
			return &types.Note{ID: id, IsArchived: *patch.IsArchived}, nil
		},
	}
	archive := NewArchiveCommand(&bytes.Buffer{}, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken, true)
	unarchive := NewArchiveCommand(&bytes.Buffer{}, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken, false)

	if err := archive.Run([]string{"1"}); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if err := unarchive.Run([]string{"1"}); err != nil {
		t.Fatalf("unarchive: %v", err)
	}
	if len(patches) != 2 || patches[0].IsArchived == nil || !*patches[0].IsArchived {
		t.Fatalf("unexpected archive patch: %#v", patches)
	}
	if patches[1].IsArchived == nil || *patches[1].IsArchived {
		t.Fatalf("unexpected unarchive patch: %#v", patches)
	}
}

func TestTagCommandJoinsNames(t *testing.T) {
	stdout := &bytes.Buffer{}
	var seen []string
	fake := &fakeNotesAPI{
		attachFn: func(ctx context.Context, token string, id int, names []string) (*types.Note, error) {
			seen = names
			return &types.Note{ID: id, Tags: []*types.Tag{{ID: 1, Name: "work"}, {ID: 2, Name: "ideas"}}}, nil
		},
	}
	cmd := NewTagCommand(stdout, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken)

	if err := cmd.Run([]string{"12", "work", "ideas"}); err != nil {
		t.Fatalf("expected tag to succeed, got err=%v", err)
	}
	if len(seen) != 2 || seen[0] != "work" || seen[1] != "ideas" {
		t.Fatalf("unexpected names: %v", seen)
	}
	if !strings.Contains(stdout.String(), "work,ideas") {
		t.Fatalf("unexpected output: %q", stdout.String())
	}
}

func TestCatCommandPlain(t *testing.T) {
	stdout := &bytes.Buffer{}
	fake := &fakeNotesAPI{
		listFn: func(ctx context.Context, token string, archived bool) ([]*types.Note, error) {
			if archived {
				return []*types.Note{}, nil
			}
			return []*types.Note{sampleNote(4, "Reading list")}, nil
		},
	}
	cmd := NewCatCommand(stdout, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken, config.Load)

	if err := cmd.Run([]string{"--plain", "4"}); err != nil {
		t.Fatalf("expected cat to succeed, got err=%v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "# Reading list") || !strings.Contains(out, "content of Reading list") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCatCommandFallsBackToArchivedPartition(t *testing.T) {
	stdout := &bytes.Buffer{}
	fake := &fakeNotesAPI{
		listFn: func(ctx context.Context, token string, archived bool) ([]*types.Note, error) {
			if archived {
				return []*types.Note{{ID: 9, Title: "Old", Content: "archived body", IsArchived: true}}, nil
			}
			return []*types.Note{}, nil
		},
	}
	cmd := NewCatCommand(stdout, &bytes.Buffer{}, fixedFactory(t, fake), fixedToken, config.Load)

	if err := cmd.Run([]string{"--plain", "9"}); err != nil {
		t.Fatalf("expected cat to succeed, got err=%v", err)
	}
	if !strings.Contains(stdout.String(), "archived body") {
		t.Fatalf("unexpected output: %q", stdout.String())
	}
}

func TestCatCommandUnknownNote(t *testing.T) {
	cmd := NewCatCommand(&bytes.Buffer{}, &bytes.Buffer{}, fixedFactory(t, &fakeNotesAPI{}), fixedToken, config.Load)

	err := cmd.Run([]string{"99"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestLoginCommandStoresToken(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	stdout := &bytes.Buffer{}
	cmd := NewLoginCommand(stdout, &bytes.Buffer{})

	if err := cmd.Run([]string{"my-token"}); err != nil {
		t.Fatalf("expected login to succeed, got err=%v", err)
	}
	data, err := os.ReadFile(filepath.Join(home, ".quill", "token"))
	if err != nil {
		t.Fatalf("read token file: %v", err)
	}
	if strings.TrimSpace(string(data)) != "my-token" {
		t.Fatalf("unexpected token file contents: %q", data)
	}
}

func TestLoginCommandClear(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cmd := NewLoginCommand(&bytes.Buffer{}, &bytes.Buffer{})

	if err := cmd.Run([]string{"my-token"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := cmd.Run([]string{"--clear"}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".quill", "token")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("token file should be gone, stat err=%v", err)
	}
}

func TestConfigCommandDefaultsTOML(t *testing.T) {
	stdout := &bytes.Buffer{}
	cmd := NewConfigCommand(stdout, &bytes.Buffer{}, config.Load)

	if err := cmd.Run([]string{"--default", "--format", "toml"}); err != nil {
		t.Fatalf("expected config to succeed, got err=%v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "[api]") || !strings.Contains(out, "base_url") {
		t.Fatalf("unexpected toml output: %q", out)
	}
}

func TestConfigCommandRejectsBadFormat(t *testing.T) {
	cmd := NewConfigCommand(&bytes.Buffer{}, &bytes.Buffer{}, config.Load)

	if err := cmd.Run([]string{"--format", "yaml"}); err == nil {
		t.Fatalf("expected format error")
	}
}
