package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

const isAdminKey contextKey = "is_admin"

// AdminLevel is the access level RequireAdmin accepts. It must match the
// value stored in the users table.
const AdminLevel = "Admin"

// AccessLevelLookup resolves an account ID to its access level. A lookup
// error is treated as "not an admin".
type AccessLevelLookup func(ctx context.Context, userID string) (string, error)

// WithIsAdmin stores the admin flag in the context.
func WithIsAdmin(ctx context.Context, isAdmin bool) context.Context {
	return context.WithValue(ctx, isAdminKey, isAdmin)
}

// IsAdminFromContext returns whether the caller is an admin.
// Returns false when not set.
func IsAdminFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(isAdminKey).(bool)
	return v
}

// RequireAdmin builds on RequireUser: the caller must be identified AND hold
// the Admin access level. Runs the lookup per request so demotions take
// effect immediately.
func RequireAdmin(lookup AccessLevelLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _ := UserIDFromContext(r.Context())

			level, err := lookup(r.Context(), userID)
			if err != nil || level != AdminLevel {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "Unauthorized. Admin access required."})
				return
			}

			ctx := WithIsAdmin(r.Context(), true)
			next.ServeHTTP(w, r.WithContext(ctx))
		}))
	}
}
