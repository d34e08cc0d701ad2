package middleware

import (
	"net/http"

	"github.com/kintaihub/kintai-backend-go/internal/domain/identity"
	"github.com/kintaihub/kintai-backend-go/internal/handler/http/response"
)

// RequireReviewer admits leaders and admins. This is a coarse gate for
// the review endpoints; the workflow service re-checks the specific role
// for each transition.
func RequireReviewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}

		if actor.Role != identity.RoleLeader && actor.Role != identity.RoleAdmin {
			response.Forbidden(w, "Leader or admin role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminOnly admits admins.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}

		if actor.Role != identity.RoleAdmin {
			response.Forbidden(w, "Admin role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
