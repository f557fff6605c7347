package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrrecords/internal/domain/auth"
	"hrrecords/internal/platform/requestctx"
)

type stubAuthenticator struct{}

func (stubAuthenticator) ResolveToken(token string) (auth.UserContext, error) {
	if token == "good" {
		return auth.UserContext{UserID: "u1", Username: "alice", Via: auth.ViaToken}, nil
	}
	return auth.UserContext{}, errors.New("bad token")
}

func (stubAuthenticator) ResolveSession(_ context.Context, token string) (auth.User, error) {
	if token == "cookie-ok" {
		return auth.User{ID: "u2", Username: "bob"}, nil
	}
	return auth.User{}, auth.ErrSessionInvalid
}

func TestAuthMiddlewareSetsUserFromBearer(t *testing.T) {
	handler := Auth(stubAuthenticator{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.UserID != "u1" || user.Via != auth.ViaToken {
			t.Fatalf("unexpected user: %+v", user)
		}
		if requestctx.GetActor(r.Context()) != "u1" {
			t.Fatal("expected actor recorded")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthMiddlewareAcceptsSessionCookie(t *testing.T) {
	handler := Auth(stubAuthenticator{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok || user.UserID != "u2" || user.Via != auth.ViaSession {
			t.Fatalf("expected session user, got %+v", user)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "cookie-ok"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthMiddlewareInvalidBearerIsAnonymous(t *testing.T) {
	handler := Auth(stubAuthenticator{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "cookie-ok"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRequireAuthForWrites(t *testing.T) {
	handler := RequireAuthForWrites(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	get := httptest.NewRecorder()
	handler.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil))
	if get.Code != http.StatusNoContent {
		t.Fatalf("expected reads to pass, got %d", get.Code)
	}

	post := httptest.NewRecorder()
	handler.ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/api/v1/employees", nil))
	if post.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous write, got %d", post.Code)
	}

	authed := httptest.NewRequest(http.MethodDelete, "/api/v1/employees/1", nil)
	authed = authed.WithContext(WithUser(authed.Context(), auth.UserContext{UserID: "u1"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authed)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected authenticated write to pass, got %d", rec.Code)
	}
}
