// Package client is the browser-side half of the storefront: session
// handling against the auth endpoints, a locally persisted cart, and the
// calls the checkout flow needs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GenericMessage is shown when the server gave no usable error text.
const GenericMessage = "An error occurred. Please try again later."

// Error is a failure fit to show the user as is.
type Error struct {
	Status  int // 0 when the request never got an answer
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// ErrNoSession is returned by calls that need a token when none is stored.
var ErrNoSession = &Error{Status: http.StatusUnauthorized, Message: "Please log in to continue."}

type Client struct {
	baseURL string
	http    *http.Client
	store   Storage
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for the API at baseURL. A nil store means in-memory.
func New(baseURL string, store Storage, opts ...Option) *Client {
	if store == nil {
		store = NewMemoryStorage()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		store:   store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func generic(err error) *Error {
	return &Error{Message: GenericMessage, Err: err}
}

// do sends one JSON request. Nothing is retried.
func (c *Client) do(ctx context.Context, method, path string, in, out any, withToken bool) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return generic(err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return generic(err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withToken {
		token, ok := c.store.Get(KeyToken)
		if !ok || token == "" {
			return ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return generic(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return generic(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) != nil || payload.Error == "" {
			return &Error{Status: resp.StatusCode, Message: GenericMessage,
				Err: fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)}
		}
		return &Error{Status: resp.StatusCode, Message: payload.Error}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return generic(err)
		}
	}
	return nil
}

// IsUnauthorized reports whether err means the session is missing or dead.
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusUnauthorized
}
