package application

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/internal/infrastructure/gormstore"
)

type fakeSync struct {
	mu       sync.Mutex
	upserts  []RemoteIdentity
	err      error
	tokenErr error
}

func (f *fakeSync) UpsertIdentity(_ context.Context, id RemoteIdentity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, id)
	return f.err
}

func (f *fakeSync) IssueRemoteToken(_ context.Context, userID string) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "chat-" + userID, nil
}

func (f *fakeSync) seen() []RemoteIdentity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RemoteIdentity(nil), f.upserts...)
}

type fakeNotifier struct {
	mu       sync.Mutex
	welcomed []string
	accepted [][2]string
}

func (f *fakeNotifier) Welcome(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomed = append(f.welcomed, u.Email)
	return nil
}

func (f *fakeNotifier) FriendRequestAccepted(_ context.Context, sender, recipient *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accepted = append(f.accepted, [2]string{sender.ID, recipient.ID})
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	users       map[string]entity.User
	invalidated []string
}

func newFakeCache() *fakeCache { return &fakeCache{users: map[string]entity.User{}} }

func (c *fakeCache) Get(_ context.Context, id string) (*entity.User, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[id]
	if !ok {
		return nil, false, nil
	}
	return &u, true, nil
}

func (c *fakeCache) Set(_ context.Context, u *entity.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[u.ID] = *u
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, ids ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.users, id)
	}
	c.invalidated = append(c.invalidated, ids...)
	return nil
}

type fakeAvatars struct{ err error }

func (f fakeAvatars) Upload(_ context.Context, userID string, r io.Reader, filename, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	_, _ = io.Copy(io.Discard, r)
	return "https://cdn.test/avatars/" + userID + "/" + filename, nil
}

type env struct {
	accounts      *AccountService
	relationships *RelationshipService
	sync          *fakeSync
	notifier      *fakeNotifier
	bg            *Background
	hook          *test.Hook
	logger        *logrus.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := gormstore.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	logger, hook := test.NewNullLogger()
	bg := NewBackground(logger, time.Second)
	t.Cleanup(bg.Wait)

	remote := &fakeSync{}
	notifier := &fakeNotifier{}
	users := gormstore.NewUserRepository(db)
	requests := gormstore.NewFriendRequestRepository(db)

	accounts := NewAccountService(users, NewIdentityPropagator(remote, bg), bg, logger, "https://avatars.test/public")
	accounts.Notifier = notifier
	accounts.Chat = remote

	relationships := NewRelationshipService(users, requests, bg, logger)
	relationships.Notifier = notifier

	return &env{
		accounts:      accounts,
		relationships: relationships,
		sync:          remote,
		notifier:      notifier,
		bg:            bg,
		hook:          hook,
		logger:        logger,
	}
}

func (e *env) signup(t *testing.T, name, email string) *entity.User {
	t.Helper()
	u, err := e.accounts.CreateAccount(context.Background(), SignupInput{FullName: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	return u
}

func (e *env) onboarded(t *testing.T, name, email string) *entity.User {
	t.Helper()
	u := e.signup(t, name, email)
	u, err := e.accounts.CompleteOnboarding(context.Background(), u.ID, OnboardInput{
		FullName:         name,
		Bio:              "hi",
		NativeLanguage:   "spanish",
		LearningLanguage: "english",
		Location:         "Madrid",
	})
	require.NoError(t, err)
	return u
}
