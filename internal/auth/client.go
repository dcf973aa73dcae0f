// Package auth is the client for the external passwordless identity
// provider. Login is an out-of-band emailed link: the provider mails the
// user a link carrying a one-time token hash, which the callback handler
// exchanges for an access token.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// User is the provider's view of an authenticated user.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the provider session returned by a successful verification.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// Client talks to a GoTrue-style auth provider over its REST API.
type Client struct {
	baseURL string
	anonKey string
	client  *http.Client
}

// NewClient creates a provider client. baseURL is the provider root
// (e.g. https://project.example.co), anonKey its public API key.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// RequestMagicLink asks the provider to email a login link. redirectTo is
// the URL the emailed link sends the browser back to. Failures come back as
// human-readable messages, not structured codes.
func (c *Client) RequestMagicLink(ctx context.Context, email, redirectTo string) error {
	path := "/auth/v1/magiclink"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, path, "", body, nil)
}

// Verify exchanges the token hash from an emailed link for a provider
// session. An invalid or expired link is an error with the provider's
// message.
func (c *Client) Verify(ctx context.Context, tokenHash string) (*Session, error) {
	body := map[string]string{"type": "magiclink", "token_hash": tokenHash}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/verify", "", body, &session); err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("provider returned no access token")
	}
	return &session, nil
}

// GetUser fetches the user behind an access token. Any failure means the
// token is no longer good; callers treat it as "not authenticated".
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the access token at the provider.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

// providerError is the error shape the provider uses, with some field-name
// drift between endpoints.
type providerError struct {
	Msg         string `json:"msg"`
	Message     string `json:"message"`
	Description string `json:"error_description"`
}

func (e providerError) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	case e.Description != "":
		return e.Description
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth provider unreachable: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var perr providerError
		if json.Unmarshal(data, &perr) == nil && perr.text() != "" {
			return fmt.Errorf("auth provider: %s", perr.text())
		}
		return fmt.Errorf("auth provider returned status %d", resp.StatusCode)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parsing provider response: %w", err)
		}
	}
	return nil
}
