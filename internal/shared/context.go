package shared

import (
	"context"

	"github.com/nippo-cloud/nippo/internal/authz"
)

type sessionContextKey struct{}

type actorContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithActor stores the resolved actor in context. The actor is
// resolved fresh per request; nothing caches it across requests.
func ContextWithActor(ctx context.Context, actor *authz.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor, nil when unauthenticated.
func ActorFromContext(ctx context.Context) *authz.Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*authz.Actor)
	return actor
}
