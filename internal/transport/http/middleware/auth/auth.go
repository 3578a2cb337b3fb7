// Package auth resolves the Bearer token on incoming requests into an actor
// and makes it available to handlers through the request context.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/apperr"
	"github.com/freshfold/orderdesk/internal/service/models/user"
	"github.com/freshfold/orderdesk/internal/transport/http/respond"
)

type ctxKey struct{}

// userService is the slice of the user service the middleware needs.
type userService interface {
	ParseToken(tokenString string) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

type unauthorizedBody struct {
	Message string `json:"message"`
}

// New returns middleware that authenticates every request. Missing or invalid
// tokens get 401; a valid token for a deleted account does too.
func New(svc userService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				respond.JSON(w, http.StatusUnauthorized, unauthorizedBody{Message: "authentication required"})

				return
			}

			id, err := svc.ParseToken(token)
			if err != nil {
				respond.JSON(w, http.StatusUnauthorized, unauthorizedBody{Message: "invalid token"})

				return
			}

			u, err := svc.GetByID(r.Context(), id)
			if err != nil {
				if errors.Is(err, apperr.ErrNotFound) {
					respond.JSON(w, http.StatusUnauthorized, unauthorizedBody{Message: "invalid token"})

					return
				}
				respond.Error(w, err)

				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, u.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MustActor fetches the actor from the request context, answering 401 when
// the middleware did not run.
func MustActor(w http.ResponseWriter, r *http.Request) (actor.Actor, bool) {
	a, ok := ActorFromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, unauthorizedBody{Message: "authentication required"})
	}

	return a, ok
}

// ActorFromContext returns the actor installed by the middleware.
func ActorFromContext(ctx context.Context) (actor.Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(actor.Actor)

	return a, ok
}
