package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"parceldesk/api/internal/model"
)

// Remote is the upstream parcel service, one collection per entity kind.
// Create decodes the upstream response into rec, so the remote-assigned
// id wins. Every failure is reported as *RemoteUnavailableError.
type Remote[T model.Record] interface {
	FetchAll(ctx context.Context) ([]T, error)
	Create(ctx context.Context, rec T) error
	Update(ctx context.Context, rec T) error
	Delete(ctx context.Context, id int64) error
}

// RemoteUnavailableError marks a failure the coordinator is expected to
// recover from locally: network error, non-2xx status or a body the
// console cannot decode.
type RemoteUnavailableError struct {
	Kind   string
	Op     string
	Status int // 0 when the request never completed
	Err    error
}

func (e *RemoteUnavailableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s %s: status %d", e.Kind, e.Op, e.Status)
	}
	return fmt.Sprintf("remote %s %s: %v", e.Kind, e.Op, e.Err)
}

func (e *RemoteUnavailableError) Unwrap() error { return e.Err }

// RemoteClient talks to one upstream collection over plain REST.
type RemoteClient[T model.Record] struct {
	kind    string
	baseURL string
	client  *http.Client
}

// NewRemoteClient creates a client for one entity collection, e.g.
// NewRemoteClient[*model.Location](base, "locations", 10*time.Second).
func NewRemoteClient[T model.Record](baseURL, kind string, timeout time.Duration) *RemoteClient[T] {
	return &RemoteClient[T]{
		kind:    kind,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *RemoteClient[T]) unavailable(op string, status int, err error) *RemoteUnavailableError {
	return &RemoteUnavailableError{Kind: c.kind, Op: op, Status: status, Err: err}
}

func (c *RemoteClient[T]) collectionURL() string {
	return fmt.Sprintf("%s/%s", c.baseURL, c.kind)
}

func (c *RemoteClient[T]) recordURL(id int64) string {
	return fmt.Sprintf("%s/%s/%d", c.baseURL, c.kind, id)
}

// FetchAll returns the full upstream collection.
func (c *RemoteClient[T]) FetchAll(ctx context.Context) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.collectionURL(), nil)
	if err != nil {
		return nil, c.unavailable("getAll", 0, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.unavailable("getAll", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.unavailable("getAll", resp.StatusCode, nil)
	}

	var items []T
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, c.unavailable("getAll", 0, err)
	}
	return items, nil
}

// Create posts rec and decodes the upstream echo back into rec, making
// the remote-assigned id authoritative.
func (c *RemoteClient[T]) Create(ctx context.Context, rec T) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return c.unavailable("create", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.collectionURL(), bytes.NewReader(body))
	if err != nil {
		return c.unavailable("create", 0, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return c.unavailable("create", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.unavailable("create", resp.StatusCode, nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.unavailable("create", 0, err)
	}
	if err := json.Unmarshal(data, rec); err != nil {
		return c.unavailable("create", 0, err)
	}
	return nil
}

// Update puts the full record. An empty response body is accepted.
func (c *RemoteClient[T]) Update(ctx context.Context, rec T) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return c.unavailable("update", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.recordURL(rec.RecordID()), bytes.NewReader(body))
	if err != nil {
		return c.unavailable("update", 0, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return c.unavailable("update", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.unavailable("update", resp.StatusCode, nil)
	}
	return nil
}

// Delete removes the record upstream.
func (c *RemoteClient[T]) Delete(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.recordURL(id), nil)
	if err != nil {
		return c.unavailable("delete", 0, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return c.unavailable("delete", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.unavailable("delete", resp.StatusCode, nil)
	}
	return nil
}
