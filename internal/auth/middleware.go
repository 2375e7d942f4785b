package auth

import (
	"log/slog"
	"net/http"

	"github.com/nippo-cloud/nippo/internal/authz"
	"github.com/nippo-cloud/nippo/internal/platform/httpx"
	"github.com/nippo-cloud/nippo/internal/shared"
)

// Middleware resolves the session into an actor and enforces the
// request-level policy guards. All guards delegate to the authz
// package, the same functions the handlers and affordance checks use.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// WithActor resolves the current actor from the session and stores it
// in the request context. An unauthenticated or unresolvable session
// leaves the actor nil; the policy turns that into UNAUTHORIZED.
func (m Middleware) WithActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" {
			next.ServeHTTP(w, r)
			return
		}
		actor, err := m.Service.ResolveActor(r.Context(), sess.User())
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("resolve actor", slog.String("session_user", sess.User()), slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithActor(r.Context(), actor)))
	})
}

// RequireAuthenticated rejects requests without a resolved actor.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := authz.RequireAuthenticated(shared.ActorFromContext(r.Context())); err != nil {
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireEmployeeManagement gates the employee directory surface. Runs
// once per request, before any employee facts are loaded.
func (m Middleware) RequireEmployeeManagement(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := authz.AuthorizeEmployeeManagement(shared.ActorFromContext(r.Context())); err != nil {
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
