package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/pkg/mailer"
	"github.com/oksasatya/lingo-social/pkg/mailer/templates"
)

type recorder struct {
	queue string
	jobs  []mailer.EmailJob
}

func (r *recorder) PublishJSON(_ context.Context, queue string, body any) error {
	r.queue = queue
	r.jobs = append(r.jobs, body.(mailer.EmailJob))
	return nil
}

func TestEmailNotifier(t *testing.T) {
	rec := &recorder{}
	n := NewEmailNotifier(rec, "emails", "Lingo", "http://app.test")
	ana := &entity.User{Email: "ana@x.com", FullName: "Ana"}
	bo := &entity.User{Email: "bo@x.com", FullName: "Bo"}

	require.NoError(t, n.Welcome(context.Background(), ana))
	require.NoError(t, n.FriendRequestAccepted(context.Background(), ana, bo))

	assert.Equal(t, "emails", rec.queue)
	require.Len(t, rec.jobs, 2)
	assert.Equal(t, templates.Welcome, rec.jobs[0].Template)
	assert.Equal(t, "ana@x.com", rec.jobs[1].To)
	assert.Equal(t, "Bo", rec.jobs[1].Data["FriendName"])

	subject, _, html, err := mailer.Compose(rec.jobs[1])
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, html, "Bo")
}
