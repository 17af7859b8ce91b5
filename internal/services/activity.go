package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/repo"
)

// Actor identifies who performed a request and from where.
type Actor struct {
	User string
	IP   string
}

type actorKey struct{}

// WithActor returns a context carrying a.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the request actor, or "system" when none was attached.
func ActorFrom(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok && a.User != "" {
		return a
	}
	a, _ := ctx.Value(actorKey{}).(Actor)
	a.User = "system"
	return a
}

// Action renders an audit label such as "Created Invoice" from a verb and
// an entity name. Casers are stateful, so one is built per call.
func Action(verb, entity string) string {
	return cases.Title(language.English).String(strings.TrimSpace(verb + " " + entity))
}

// Activity appends audit entries. A nil *Activity records nothing.
type Activity struct {
	DB  *gorm.DB
	Now func() time.Time
}

// Record writes one entry attributed to the context's actor. Failures are
// logged and swallowed; auditing never fails the caller.
func (a *Activity) Record(ctx context.Context, module, action string) {
	if a == nil || a.DB == nil {
		return
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	actor := ActorFrom(ctx)
	entry := &domain.ActivityLog{
		ID:        uuid.NewString(),
		User:      actor.User,
		Action:    action,
		Module:    module,
		Timestamp: now().UTC(),
		IP:        actor.IP,
	}
	if err := repo.InsertActivity(ctx, a.DB, entry); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("action", action).
			Str("module", module).
			Msg("activity log write failed")
	}
}
