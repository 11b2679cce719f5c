// Package bluesky publishes short posts to a Bluesky (AT Protocol) PDS.
package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hoanghai1803/cryptopulse/internal/httpclient"
	"github.com/hoanghai1803/cryptopulse/internal/models"
)

const (
	httpTimeout    = 20 * time.Second
	postCollection = "app.bsky.feed.post"
)

var (
	// ErrAuthFailed is returned when a session cannot be created or the
	// response carries no access token.
	ErrAuthFailed = errors.New("bluesky authentication failed")

	// ErrPublishFailed is returned when a record cannot be created.
	ErrPublishFailed = errors.New("bluesky publish failed")
)

// Client talks to the com.atproto XRPC endpoints of a PDS.
type Client struct {
	baseURL  string
	handle   string
	password string
	client   *http.Client
}

// NewClient creates a Client for the given PDS base URL and credentials.
func NewClient(baseURL, handle, password string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		handle:   handle,
		password: password,
		client:   httpclient.New(httpTimeout, logger),
	}
}

type sessionRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type sessionResponse struct {
	AccessJwt string `json:"accessJwt"`
}

type createRecordRequest struct {
	Collection string            `json:"collection"`
	Repo       string            `json:"repo"`
	Record     models.PostRecord `json:"record"`
}

// CreateSession exchanges the handle and password for an access token.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	body, status, err := c.post(ctx, "com.atproto.server.createSession", "", sessionRequest{
		Identifier: c.handle,
		Password:   c.password,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("%w: unexpected status code: %d", ErrAuthFailed, status)
	}

	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("%w: parsing session: %w", ErrAuthFailed, err)
	}
	if session.AccessJwt == "" {
		return "", fmt.Errorf("%w: no access token in response", ErrAuthFailed)
	}
	return session.AccessJwt, nil
}

// CreateRecord creates a post record in the authenticated user's repo.
func (c *Client) CreateRecord(ctx context.Context, token string, record models.PostRecord) error {
	_, status, err := c.post(ctx, "com.atproto.repo.createRecord", token, createRecordRequest{
		Collection: postCollection,
		Repo:       c.handle,
		Record:     record,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: unexpected status code: %d", ErrPublishFailed, status)
	}
	return nil
}

// post sends a JSON body to the named XRPC procedure and returns the raw
// response body and status code.
func (c *Client) post(ctx context.Context, method, token string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/xrpc/"+method, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
