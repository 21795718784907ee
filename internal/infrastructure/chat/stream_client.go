// Package chat mirrors user identities into the Stream chat service and
// issues the tokens clients use to connect to it.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	stream "github.com/GetStream/stream-chat-go/v5"

	"github.com/oksasatya/lingo-social/internal/application"
)

var errMissingCredentials = errors.New("stream api key or secret is missing")

// StreamClient adapts the Stream server SDK to RemoteIdentitySync.
type StreamClient struct {
	api *stream.Client
}

// NewStreamClient builds the SDK client. An empty baseURL keeps the SDK default.
func NewStreamClient(apiKey, secret, baseURL string, timeout time.Duration) (*StreamClient, error) {
	if apiKey == "" || secret == "" {
		return nil, errMissingCredentials
	}
	api, err := stream.NewClient(apiKey, secret)
	if err != nil {
		return nil, fmt.Errorf("stream client: %w", err)
	}
	if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
		api.BaseURL = baseURL
	}
	if timeout > 0 {
		api.HTTP = &http.Client{Timeout: timeout}
	}
	return &StreamClient{api: api}, nil
}

// IssueRemoteToken signs a non-expiring user token the chat client connects with.
func (c *StreamClient) IssueRemoteToken(_ context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("issue chat token: empty user id")
	}
	return c.api.CreateToken(userID, time.Time{})
}

// UpsertIdentity creates the user or replaces its name and image.
func (c *StreamClient) UpsertIdentity(ctx context.Context, id application.RemoteIdentity) error {
	_, err := c.api.UpsertUser(ctx, &stream.User{ID: id.ID, Name: id.Name, Image: id.Image})
	if err != nil {
		return fmt.Errorf("stream upsert user %s: %w", id.ID, err)
	}
	return nil
}

var _ application.RemoteIdentitySync = (*StreamClient)(nil)
