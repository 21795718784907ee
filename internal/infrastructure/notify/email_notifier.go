// Package notify turns domain events into email jobs on the RabbitMQ queue.
package notify

import (
	"context"
	"time"

	"github.com/oksasatya/lingo-social/internal/application"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/pkg/mailer"
	"github.com/oksasatya/lingo-social/pkg/mailer/templates"
)

// Publisher is the subset of helpers.RabbitPublisher used to enqueue jobs.
type Publisher interface {
	PublishJSON(ctx context.Context, queue string, body any) error
}

type EmailNotifier struct {
	publisher Publisher
	queue     string
	appName   string
	appURL    string
	now       func() time.Time
}

func NewEmailNotifier(publisher Publisher, queue, appName, appURL string) *EmailNotifier {
	return &EmailNotifier{publisher: publisher, queue: queue, appName: appName, appURL: appURL, now: time.Now}
}

func (n *EmailNotifier) Welcome(ctx context.Context, u *entity.User) error {
	return n.publisher.PublishJSON(ctx, n.queue, mailer.EmailJob{
		To:       u.Email,
		Template: templates.Welcome,
		Data: templates.NewWelcomeData(n.appName, u.FullName, u.Email,
			templates.WithActionURL(n.appURL+"/onboarding"),
			templates.WithTime(n.now()),
		),
	})
}

// FriendRequestAccepted tells the sender that recipient accepted.
func (n *EmailNotifier) FriendRequestAccepted(ctx context.Context, sender, recipient *entity.User) error {
	return n.publisher.PublishJSON(ctx, n.queue, mailer.EmailJob{
		To:       sender.Email,
		Template: templates.FriendRequestAccepted,
		Data: templates.NewFriendRequestAcceptedData(n.appName, sender.FullName, sender.Email, recipient.FullName,
			templates.WithActionURL(n.appURL+"/friends"),
			templates.WithTime(n.now()),
		),
	})
}

var _ application.Notifier = (*EmailNotifier)(nil)
