package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nafis/blog-platform/internal/model"
	"github.com/nafis/blog-platform/internal/repository"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "user", u), ANY package that knows the string "user"
// can read or shadow your value. A package-private key type prevents
// collisions: only THIS package can read or write the current user.
type contextKey string

const userKey contextKey = "user"

// UserFromContext returns the authenticated user for this request, if any.
// ok is false for anonymous requests.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}

// CurrentUser resolves the request's identity and stores it in the context.
//
// It never blocks a request: a missing cookie, an invalid or expired token,
// or a user id that no longer resolves to a row all simply leave the request
// anonymous (fail closed, not fatal). Guards that need an identity compose
// on top via RequireAuth / RequireAdmin.
//
// The database lookup runs on EVERY authenticated request — a session token
// for a user deleted since login resolves to anonymous immediately, rather
// than living on until the token expires.
func CurrentUser(sessions *SessionService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.Validate(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth blocks anonymous requests from reaching protected handlers.
//
// Rather than answering 401, it redirects to the login page with the
// originally requested path in the "next" parameter, so the user lands back
// on their intended action after authenticating. The login handler runs
// "next" through the redirect validator before following it.
//
// Must be mounted after CurrentUser.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin blocks authenticated non-admin users with 403 Forbidden.
//
// The admin is the user whose id equals adminID — configurable policy, not
// a hard-coded magic number. This guard composes AFTER RequireAuth: the
// two checks are independent, and an anonymous request must get the login
// redirect, never a bare 403.
func RequireAdmin(adminID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user.ID != adminID {
				http.Error(w, "403 Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
