package chat

import (
	"context"
	"fmt"

	"github.com/oksasatya/lingo-social/internal/application"
)

// Publisher is the subset of helpers.RabbitPublisher the queue mode needs.
type Publisher interface {
	PublishJSON(ctx context.Context, queue string, body any) error
}

// QueuedSync hands upserts to a worker through RabbitMQ; tokens are still
// signed locally since they need no round trip.
type QueuedSync struct {
	publisher Publisher
	queue     string
	tokens    *StreamClient
}

func NewQueuedSync(publisher Publisher, queue string, tokens *StreamClient) *QueuedSync {
	return &QueuedSync{publisher: publisher, queue: queue, tokens: tokens}
}

func (q *QueuedSync) UpsertIdentity(ctx context.Context, id application.RemoteIdentity) error {
	if err := q.publisher.PublishJSON(ctx, q.queue, id); err != nil {
		return fmt.Errorf("enqueue identity %s: %w", id.ID, err)
	}
	return nil
}

func (q *QueuedSync) IssueRemoteToken(ctx context.Context, userID string) (string, error) {
	return q.tokens.IssueRemoteToken(ctx, userID)
}

var _ application.RemoteIdentitySync = (*QueuedSync)(nil)
