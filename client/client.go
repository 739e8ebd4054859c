// Package client is an HTTP JSON client for the contact manager API.
//
// Every contact call takes an explicit Session carrying the identity token.
// The token is sent both as a bearer Authorization header and as
// x-auth-token. Non-2xx responses are returned as *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contactmanager/contact"
)

// DefaultTimeout bounds every request made through a Client.
const DefaultTimeout = 10 * time.Second

// codeTokenInvalid is the marker the server puts on authentication failures.
const codeTokenInvalid = "token_invalid"

// Session is the credential of a logged in user.
type Session struct {
	Token string
}

// Empty reports whether the session carries no token.
func (s Session) Empty() bool {
	return strings.TrimSpace(s.Token) == ""
}

// APIError is a non-2xx response. Msg is the server's msg field when present.
type APIError struct {
	Status int
	Msg    string
	Code   string
}

func (e *APIError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Msg)
}

// IsAuthRejected reports whether err is a 401 caused by a missing or invalid
// token, as opposed to an ownership failure.
func IsAuthRejected(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized && apiErr.Code == codeTokenInvalid
}

// ServerMessage returns the msg the server sent with err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Msg
	}
	return ""
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(c *Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New returns a client for the API mounted at baseURL, for example
// http://localhost:8080/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Msg string `json:"msg"`
}

type errorResponse struct {
	Msg  string `json:"msg"`
	Code string `json:"code"`
}

// Signup creates an account and returns its session.
func (c *Client) Signup(ctx context.Context, name, email, password string) (Session, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", Session{}, signupRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: resp.Token}, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", Session{}, loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: resp.Token}, nil
}

// ListContacts returns the session owner's contacts, newest first.
func (c *Client) ListContacts(ctx context.Context, s Session) ([]contact.Contact, error) {
	contacts := []contact.Contact{}
	if err := c.do(ctx, http.MethodGet, "/contacts", s, nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *Client) CreateContact(ctx context.Context, s Session, in contact.Input) (contact.Contact, error) {
	var created contact.Contact
	err := c.do(ctx, http.MethodPost, "/contacts", s, in, &created)
	return created, err
}

func (c *Client) UpdateContact(ctx context.Context, s Session, id string, in contact.Input) (contact.Contact, error) {
	var updated contact.Contact
	err := c.do(ctx, http.MethodPut, "/contacts/"+url.PathEscape(id), s, in, &updated)
	return updated, err
}

// DeleteContact removes a contact and returns the server's confirmation message.
func (c *Client) DeleteContact(ctx context.Context, s Session, id string) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodDelete, "/contacts/"+url.PathEscape(id), s, nil, &resp)
	return resp.Msg, err
}

func (c *Client) do(ctx context.Context, method, path string, s Session, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !s.Empty() {
		req.Header.Set("Authorization", "Bearer "+s.Token)
		req.Header.Set("x-auth-token", s.Token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIError(res)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	err = json.NewDecoder(res.Body).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readAPIError(res *http.Response) error {
	apiErr := &APIError{Status: res.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))

	var body errorResponse
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Msg = body.Msg
		apiErr.Code = body.Code
	}
	return apiErr
}
