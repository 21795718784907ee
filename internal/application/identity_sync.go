package application

import (
	"context"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/pkg/metrics"
)

// IdentityPropagator pushes profile changes to the chat provider without
// ever failing the operation that triggered them.
type IdentityPropagator struct {
	sync RemoteIdentitySync
	bg   *Background
}

func NewIdentityPropagator(sync RemoteIdentitySync, bg *Background) *IdentityPropagator {
	return &IdentityPropagator{sync: sync, bg: bg}
}

func identityOf(u *entity.User) RemoteIdentity {
	return RemoteIdentity{ID: u.ID, Name: u.FullName, Image: u.AvatarURL}
}

// Propagate schedules an upsert of u's current identity.
func (p *IdentityPropagator) Propagate(ctx context.Context, u *entity.User) {
	if p == nil || p.sync == nil || u == nil {
		return
	}
	id := identityOf(u)
	p.bg.Go(ctx, "identity_sync", func(ctx context.Context) error {
		if err := p.sync.UpsertIdentity(ctx, id); err != nil {
			metrics.IdentitySyncTotal.WithLabelValues("error").Inc()
			return apperror.Dependency("chat", err)
		}
		metrics.IdentitySyncTotal.WithLabelValues("ok").Inc()
		return nil
	})
}

func (p *IdentityPropagator) Wait() {
	if p == nil {
		return
	}
	p.bg.Wait()
}
