package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	repo "github.com/oksasatya/lingo-social/internal/domain/repository"
)

func conflictMessage(t *testing.T, err error) string {
	t.Helper()
	var ce *apperror.ConflictError
	require.True(t, errors.As(err, &ce), "want ConflictError, got %v", err)
	return ce.Message
}

func friendIDs(t *testing.T, e *env, userID string) []string {
	t.Helper()
	ids, err := e.accounts.Users.FriendIDs(context.Background(), userID)
	require.NoError(t, err)
	return ids
}

func TestSendRequest_SelfIsRejected(t *testing.T) {
	e := newEnv(t)
	a := e.onboarded(t, "Ana", "ana@x.com")

	_, err := e.relationships.SendRequest(context.Background(), a.ID, a.ID)

	var ve *apperror.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "cannot friend self", ve.Message)
}

func TestSendRequest_UnknownRecipient(t *testing.T) {
	e := newEnv(t)
	a := e.onboarded(t, "Ana", "ana@x.com")

	_, err := e.relationships.SendRequest(context.Background(), a.ID, "nobody")
	assert.True(t, apperror.IsNotFound(err))
}

func TestSendRequest_CrossedRequestsConflict(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.onboarded(t, "Ana", "ana@x.com")
	b := e.onboarded(t, "Bo", "bo@x.com")

	fr, err := e.relationships.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, fr.Status)
	assert.Equal(t, a.ID, fr.SenderID)

	_, err = e.relationships.SendRequest(ctx, b.ID, a.ID)
	assert.Equal(t, "request already exists", conflictMessage(t, err))

	_, err = e.relationships.SendRequest(ctx, a.ID, b.ID)
	assert.Equal(t, "request already exists", conflictMessage(t, err))
}

func TestAcceptRequest_SymmetricFriendship(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.onboarded(t, "Ana", "ana@x.com")
	b := e.onboarded(t, "Bo", "bo@x.com")
	cache := newFakeCache()
	e.relationships.Cache = cache

	fr, err := e.relationships.SendRequest(ctx, b.ID, a.ID)
	require.NoError(t, err)

	accepted, err := e.relationships.AcceptRequest(ctx, a.ID, fr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, accepted.Status)

	assert.Equal(t, []string{b.ID}, friendIDs(t, e, a.ID))
	assert.Equal(t, []string{a.ID}, friendIDs(t, e, b.ID))
	assert.ElementsMatch(t, []string{a.ID, b.ID}, cache.invalidated)

	_, err = e.relationships.AcceptRequest(ctx, a.ID, fr.ID)
	assert.Equal(t, "request is not pending", conflictMessage(t, err))

	for _, pair := range [][2]string{{a.ID, b.ID}, {b.ID, a.ID}} {
		_, err = e.relationships.SendRequest(ctx, pair[0], pair[1])
		assert.Equal(t, "already friends", conflictMessage(t, err))
	}

	e.bg.Wait()
	assert.Equal(t, [][2]string{{b.ID, a.ID}}, e.notifier.accepted)
}

func TestAcceptRequest_OnlyRecipient(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.onboarded(t, "Ana", "ana@x.com")
	b := e.onboarded(t, "Bo", "bo@x.com")
	c := e.onboarded(t, "Cy", "cy@x.com")

	fr, err := e.relationships.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)

	for _, actor := range []string{a.ID, c.ID} {
		_, err = e.relationships.AcceptRequest(ctx, actor, fr.ID)
		var ae *apperror.AuthError
		require.True(t, errors.As(err, &ae))
		assert.True(t, ae.Forbidden)
	}

	_, err = e.relationships.AcceptRequest(ctx, b.ID, "missing")
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, friendIDs(t, e, a.ID))
}

func TestAcceptRequest_ConcurrentAcceptAppliesOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.onboarded(t, "Ana", "ana@x.com")
	b := e.onboarded(t, "Bo", "bo@x.com")
	fr, err := e.relationships.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.relationships.AcceptRequest(ctx, b.ID, fr.ID)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.True(t, apperror.IsConflict(err))
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, []string{a.ID}, friendIDs(t, e, b.ID))
}

type flakyRequests struct {
	repo.FriendRequestRepository
	failures int
	calls    int
}

func (f *flakyRequests) Accept(ctx context.Context, id string) (*entity.FriendRequest, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, fmt.Errorf("%w: could not serialize access", repo.ErrTransient)
	}
	return f.FriendRequestRepository.Accept(ctx, id)
}

func TestAcceptRequest_RetriesTransientFailures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.onboarded(t, "Ana", "ana@x.com")
	b := e.onboarded(t, "Bo", "bo@x.com")
	fr, err := e.relationships.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)

	flaky := &flakyRequests{FriendRequestRepository: e.relationships.Requests, failures: 2}
	e.relationships.Requests = flaky

	_, err = e.relationships.AcceptRequest(ctx, b.ID, fr.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, flaky.calls)

	flaky.calls, flaky.failures = 0, 10
	fr2, err := e.relationships.SendRequest(ctx, a.ID, e.onboarded(t, "Cy", "cy@x.com").ID)
	require.NoError(t, err)
	_, err = e.relationships.AcceptRequest(ctx, fr2.RecipientID, fr2.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrTransient)
	assert.Equal(t, defaultAcceptAttempts, flaky.calls)
	assert.Empty(t, friendIDs(t, e, fr2.RecipientID))
}

func TestRequestListings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.onboarded(t, "Ana", "ana@x.com")
	b := e.onboarded(t, "Bo", "bo@x.com")
	c := e.onboarded(t, "Cy", "cy@x.com")

	ab, err := e.relationships.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = e.relationships.SendRequest(ctx, c.ID, a.ID)
	require.NoError(t, err)
	_, err = e.relationships.AcceptRequest(ctx, b.ID, ab.ID)
	require.NoError(t, err)

	incoming, err := e.relationships.ListIncomingPending(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "Cy", incoming[0].Counterpart.FullName)

	accepted, err := e.relationships.ListOutgoingAccepted(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, b.ID, accepted[0].Counterpart.ID)

	outgoing, err := e.relationships.ListOutgoingPending(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, a.ID, outgoing[0].Counterpart.ID)

	friends, err := e.relationships.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "Bo", friends[0].FullName)
}

func TestRecommend_Exclusions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.onboarded(t, "Ana", "ana@x.com")
	b := e.onboarded(t, "Bo", "bo@x.com")
	c := e.onboarded(t, "Cy", "cy@x.com")
	pending := e.signup(t, "Dee", "dee@x.com")

	fr, err := e.relationships.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = e.relationships.AcceptRequest(ctx, b.ID, fr.ID)
	require.NoError(t, err)

	recs, err := e.relationships.Recommend(ctx, a.ID)
	require.NoError(t, err)

	ids := make([]string, 0, len(recs))
	for _, u := range recs {
		ids = append(ids, u.ID)
		assert.True(t, u.IsOnboarded)
	}
	assert.Equal(t, []string{c.ID}, ids)
	assert.NotContains(t, ids, a.ID)
	assert.NotContains(t, ids, b.ID)
	assert.NotContains(t, ids, pending.ID)
}
