package middleware

import (
	"context"
	"net/http"
	"strings"

	"hrrecords/internal/domain/auth"
	"hrrecords/internal/platform/requestctx"
	"hrrecords/internal/transport/http/api"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// Authenticator resolves bearer tokens and portal session cookies.
type Authenticator interface {
	ResolveToken(token string) (auth.UserContext, error)
	ResolveSession(ctx context.Context, token string) (auth.User, error)
}

// Auth attaches the caller to the request context when a valid bearer token
// or portal session cookie is present. It never rejects a request itself.
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := resolveUser(r, authn)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func resolveUser(r *http.Request, authn Authenticator) (auth.UserContext, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			if user, err := authn.ResolveToken(parts[1]); err == nil {
				return user, true
			}
		}
		return auth.UserContext{}, false
	}

	cookie, err := r.Cookie(auth.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return auth.UserContext{}, false
	}
	user, err := authn.ResolveSession(r.Context(), cookie.Value)
	if err != nil {
		return auth.UserContext{}, false
	}
	return auth.UserContext{UserID: user.ID, Username: user.Username, IsStaff: user.IsStaff, Via: auth.ViaSession}, true
}

func WithUser(ctx context.Context, user auth.UserContext) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUser, user)
	return requestctx.WithActor(ctx, user.UserID)
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}

func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthForWrites lets safe methods through and demands a caller for
// everything else.
func RequireAuthForWrites(next http.Handler) http.Handler {
	guarded := RequireAuthenticated(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			guarded.ServeHTTP(w, r)
		}
	})
}
