package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/pkg/composables"
)

// ActorHeader is the trusted identity header set by the upstream gateway
// after authentication. The engine never authenticates; it only resolves
// the already-verified user id into a hierarchy position.
const ActorHeader = "X-User-Id"

// ActorResolver turns a user id into the actor position attached to request
// contexts.
type ActorResolver interface {
	Actor(ctx context.Context, userID uuid.UUID) (position.ActorPosition, error)
}

// WithActor resolves the identity header into an actor position on the
// context. Requests without the header pass through unauthenticated;
// handlers that need an actor reject them via composables.UseActor.
func WithActor(resolver ActorResolver) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(ActorHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := uuid.Parse(raw)
			if err != nil {
				writeMiddlewareError(w, http.StatusBadRequest, "INVALID_USER_ID", "malformed user id header")
				return
			}

			actor, err := resolver.Actor(r.Context(), userID)
			if err != nil {
				writeMiddlewareError(w, http.StatusInternalServerError, "ACTOR_RESOLUTION_FAILED", "failed to resolve actor position")
				return
			}

			next.ServeHTTP(w, r.WithContext(composables.WithActor(r.Context(), actor)))
		})
	}
}

func writeMiddlewareError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
