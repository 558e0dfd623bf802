package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quill/internal/types"
)

const defaultTimeout = 10 * time.Second

// Client is a thin JSON client for the remote notes API. The API owns all
// note and tag lifecycle; the client never invents ids or timestamps.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// ListNotes fetches the full note set for one archive partition. The
// archived filter is applied server-side.
func (c *Client) ListNotes(ctx context.Context, token string, archived bool) ([]*types.Note, error) {
	var notes []*types.Note
	path := "/v1/notes/?archived=" + strconv.FormatBool(archived)
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []*types.Note{}
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, token string, id int) (*types.Note, error) {
	var note types.Note
	if err := c.doJSON(ctx, http.MethodGet, notePath(id), token, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) CreateNote(ctx context.Context, token string, payload types.NoteCreate) (*types.Note, error) {
	var note types.Note
	if err := c.doJSON(ctx, http.MethodPost, "/v1/notes/", token, payload, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, token string, id int, patch types.NotePatch) (*types.Note, error) {
	var note types.Note
	if err := c.doJSON(ctx, http.MethodPut, notePath(id), token, patch, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) DeleteNote(ctx context.Context, token string, id int) error {
	return c.doJSON(ctx, http.MethodDelete, notePath(id), token, nil, nil)
}

// AttachTags submits tag names for one note. The server creates or reuses
// tags as needed and returns the note with its full tag set.
func (c *Client) AttachTags(ctx context.Context, token string, id int, names []string) (*types.Note, error) {
	if len(names) == 0 {
		return nil, errors.New("at least one tag name is required")
	}
	payload := make([]types.TagCreate, 0, len(names))
	for _, name := range names {
		payload = append(payload, types.TagCreate{Name: name})
	}
	var note types.Note
	if err := c.doJSON(ctx, http.MethodPost, notePath(id)+"/tags", token, payload, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func notePath(id int) string {
	return "/v1/notes/" + strconv.Itoa(id)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) == "" {
		return ErrMissingToken
	}
	req.Header.Set("Authorization", "Bearer "+token)

	httpClient := c.http
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var ErrMissingToken = errors.New("missing bearer token")

func decodeError(resp *http.Response) error {
	type errorPayload struct {
		Detail string `json:"detail"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Detail != "" {
		return &Error{StatusCode: resp.StatusCode, Message: payload.Detail}
	}
	return &Error{StatusCode: resp.StatusCode, Message: resp.Status}
}

// Error carries the server-provided message alongside the HTTP status so
// callers can distinguish unauthenticated failures from everything else.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// IsAuthError reports whether err is the API's unauthenticated-session
// signal. These failures are not retried; the caller is expected to force a
// sign-out.
func IsAuthError(err error) bool {
	apiErr := AsError(err)
	return apiErr != nil && apiErr.StatusCode == http.StatusUnauthorized
}
