package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type fakeSessionValidator struct {
	ownerID int64
	err     error
	got     string
}

func (f *fakeSessionValidator) ValidateSession(ctx context.Context, token string) (int64, error) {
	f.got = token
	return f.ownerID, f.err
}

func newContext(req *http.Request) echo.Context {
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestTokenResolver_BearerHeader(t *testing.T) {
	sessions := &fakeSessionValidator{ownerID: 7}
	r := NewTokenResolver(sessions)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-123")

	id, err := r.ResolveOwner(newContext(req))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id != 7 {
		t.Fatalf("unexpected owner %d", id)
	}
	if sessions.got != "tok-123" {
		t.Fatalf("validator saw token %q", sessions.got)
	}
}

func TestTokenResolver_Cookie(t *testing.T) {
	sessions := &fakeSessionValidator{ownerID: 9}
	r := NewTokenResolver(sessions)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "tok-cookie"})

	id, err := r.ResolveOwner(newContext(req))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id != 9 || sessions.got != "tok-cookie" {
		t.Fatalf("unexpected result id=%d token=%q", id, sessions.got)
	}
}

func TestTokenResolver_MissingToken(t *testing.T) {
	r := NewTokenResolver(&fakeSessionValidator{ownerID: 7})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := r.ResolveOwner(newContext(req)); err == nil {
		t.Fatal("expected error without a token")
	}
}

func TestTokenResolver_RevokedSession(t *testing.T) {
	sessions := &fakeSessionValidator{err: fmt.Errorf("session revoked")}
	r := NewTokenResolver(sessions)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-123")

	if _, err := r.ResolveOwner(newContext(req)); err == nil {
		t.Fatal("expected validator error to propagate")
	}
}

func TestHeaderResolver(t *testing.T) {
	r := NewHeaderResolver()

	t.Run("header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-Id", "12")
		id, err := r.ResolveOwner(newContext(req))
		if err != nil || id != 12 {
			t.Fatalf("got id=%d err=%v", id, err)
		}
	})

	t.Run("form fallback", func(t *testing.T) {
		form := url.Values{"user_id": {"34"}}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		id, err := r.ResolveOwner(newContext(req))
		if err != nil || id != 34 {
			t.Fatalf("got id=%d err=%v", id, err)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, raw := range []string{"", "0", "-3", "abc"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if raw != "" {
				req.Header.Set("X-User-Id", raw)
			}
			if _, err := r.ResolveOwner(newContext(req)); err == nil {
				t.Fatalf("expected rejection for %q", raw)
			}
		}
	})
}

func TestEchoIdentity_SetsOwner(t *testing.T) {
	e := echo.New()
	e.GET("/private", func(c echo.Context) error {
		id, ok := OwnerFromContext(c)
		if !ok {
			t.Fatal("owner missing from context")
		}
		return c.String(http.StatusOK, fmt.Sprintf("%d", id))
	}, EchoIdentity(NewHeaderResolver()))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("X-User-Id", "5")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "5" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
