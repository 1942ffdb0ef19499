package webutil

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/pageturn/biblio/models"
)

// Identity headers are set by the authenticating gateway in front of this
// service. Requests without them are treated as anonymous.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

type contextKey string

const (
	contextKeyUserID  contextKey = "userID"
	contextKeyIsAdmin contextKey = "isAdmin"
)

// Identity extracts the caller's identity from gateway headers and stores it
// on the request context.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if raw := r.Header.Get(HeaderUserID); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				ctx = context.WithValue(ctx, contextKeyUserID, id.String())
			}
		}
		isAdmin := r.Header.Get(HeaderUserRole) == string(models.UserRoleAdmin)
		ctx = context.WithValue(ctx, contextKeyIsAdmin, isAdmin)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated user's ID, or false when the
// request is anonymous.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKeyUserID).(string)
	return id, ok
}

// IsAdminFromContext reports whether the caller holds the admin role.
func IsAdminFromContext(ctx context.Context) bool {
	isAdmin, _ := ctx.Value(contextKeyIsAdmin).(bool)
	return isAdmin
}
