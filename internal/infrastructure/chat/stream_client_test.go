package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-social/internal/application"
)

const testSecret = "stream-secret"

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	return claims
}

func TestNewStreamClient_RequiresCredentials(t *testing.T) {
	_, err := NewStreamClient("", testSecret, "http://x", time.Second)
	assert.ErrorIs(t, err, errMissingCredentials)
}

func TestStreamClient_UpsertIdentity(t *testing.T) {
	var got struct {
		Users map[string]map[string]any `json:"users"`
	}
	var authHeader, authType, apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		apiKey = r.URL.Query().Get("api_key")
		authHeader = r.Header.Get("Authorization")
		authType = r.Header.Get("Stream-Auth-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"users":{"u1":{"id":"u1","name":"Ana"}},"duration":"1ms"}`))
	}))
	defer srv.Close()

	c, err := NewStreamClient("key-1", testSecret, srv.URL+"/", time.Second)
	require.NoError(t, err)

	err = c.UpsertIdentity(context.Background(), application.RemoteIdentity{ID: "u1", Name: "Ana", Image: "https://img/1.png"})
	require.NoError(t, err)

	assert.Equal(t, "key-1", apiKey)
	assert.Equal(t, "jwt", authType)
	assert.Equal(t, true, parseClaims(t, authHeader)["server"])
	require.Contains(t, got.Users, "u1")
	assert.Equal(t, "u1", got.Users["u1"]["id"])
	assert.Equal(t, "Ana", got.Users["u1"]["name"])
	assert.Equal(t, "https://img/1.png", got.Users["u1"]["image"])
}

func TestStreamClient_UpsertIdentityErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":2,"message":"api key not found","StatusCode":401}`))
	}))
	defer srv.Close()

	c, err := NewStreamClient("bad", testSecret, srv.URL, time.Second)
	require.NoError(t, err)

	err = c.UpsertIdentity(context.Background(), application.RemoteIdentity{ID: "u1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream upsert user u1")
}

func TestStreamClient_IssueRemoteToken(t *testing.T) {
	c, err := NewStreamClient("key", testSecret, "http://unused", time.Second)
	require.NoError(t, err)

	token, err := c.IssueRemoteToken(context.Background(), "u42")
	require.NoError(t, err)
	assert.Equal(t, "u42", parseClaims(t, token)["user_id"])

	_, err = c.IssueRemoteToken(context.Background(), "")
	assert.Error(t, err)
}

type recordingPublisher struct {
	queue string
	body  any
}

func (p *recordingPublisher) PublishJSON(_ context.Context, queue string, body any) error {
	p.queue, p.body = queue, body
	return nil
}

func TestQueuedSync(t *testing.T) {
	c, err := NewStreamClient("key", testSecret, "http://unused", time.Second)
	require.NoError(t, err)
	pub := &recordingPublisher{}
	q := NewQueuedSync(pub, "chat_identity_sync", c)

	id := application.RemoteIdentity{ID: "u1", Name: "Ana"}
	require.NoError(t, q.UpsertIdentity(context.Background(), id))
	assert.Equal(t, "chat_identity_sync", pub.queue)
	assert.Equal(t, id, pub.body)

	token, err := q.IssueRemoteToken(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
