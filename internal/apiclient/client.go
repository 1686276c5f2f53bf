// Package apiclient talks to the user records HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/kishore-freak653/CRUD-Application/internal/server/dto"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

// Error is an error response from the server.
type Error struct {
	StatusCode int
	Code       dto.ErrorCode
	Message    string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsWarning reports whether the server rejected the request input. Its
// Message is meant to be shown to the user as is.
func (e *Error) IsWarning() bool {
	return e.StatusCode == http.StatusBadRequest
}

// Input holds record attributes as typed by a user. Age is sent as text and
// parsed by the server.
type Input struct {
	Name string `json:"name"`
	Age  string `json:"age"`
	City string `json:"city"`
}

// Client calls the API at a base URL.
type Client struct {
	base *url.URL
	hc   *http.Client
}

// New returns a Client. hc may be nil.
func New(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{base: u, hc: hc}, nil
}

// List returns every record.
func (c *Client) List(ctx context.Context) ([]users.User, error) {
	var out []users.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one record.
func (c *Client) Get(ctx context.Context, id int64) (*users.User, error) {
	out := &users.User{}
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds a record and returns its id.
func (c *Client) Create(ctx context.Context, in *Input) (int64, error) {
	var out dto.CreateUserResponse
	if err := c.do(ctx, http.MethodPost, "/users/", in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// Update replaces a record's attributes.
func (c *Client) Update(ctx context.Context, id int64, in *Input) error {
	var out dto.MessageResponse
	return c.do(ctx, http.MethodPatch, userPath(id), in, &out)
}

// Delete removes a record and returns the remaining ones.
func (c *Client) Delete(ctx context.Context, id int64) ([]users.User, error) {
	var out []users.User
	if err := c.do(ctx, http.MethodDelete, userPath(id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func userPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	apiErr := &Error{StatusCode: status}
	var resp dto.ErrorResponse
	if err := json.Unmarshal(data, &resp); err == nil && resp.Message != "" {
		apiErr.Code = resp.Code
		apiErr.Message = resp.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(data))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// AsWarning returns the message of a rejected input, or "".
func AsWarning(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.IsWarning() {
		return apiErr.Message
	}
	return ""
}
