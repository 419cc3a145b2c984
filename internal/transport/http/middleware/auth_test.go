package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/coinflipper/login-service/internal/identity"
	"github.com/coinflipper/login-service/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	resolve func(ctx context.Context, key string) identity.Identity
}

func (f *fakeResolver) Resolve(ctx context.Context, key string) identity.Identity {
	return f.resolve(ctx, key)
}

func identityFor(user *domain.User) identity.Identity {
	if user == nil {
		return identity.Anonymous()
	}
	session := &domain.Session{Key: "sess", UserID: user.ID, User: user}
	return identity.Identity{Session: session, User: user, EffectiveUser: user}
}

// newEngine wires AttachSession plus the gate under test in front of a
// probe that records the resolved identity.
func newEngine(resolver middleware.SessionResolver, gate gin.HandlerFunc, captured *identity.Identity) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AttachSession(resolver))
	if gate != nil {
		r.Use(gate)
	}
	r.GET("/probe", func(c *gin.Context) {
		*captured = identity.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r
}

// ---- AttachSession ----

func TestAttachSession_NoCookie_ResolvesEmptyKey(t *testing.T) {
	var resolvedKey string
	resolver := &fakeResolver{
		resolve: func(_ context.Context, key string) identity.Identity {
			resolvedKey = key
			return identity.Anonymous()
		},
	}

	var captured identity.Identity
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	newEngine(resolver, nil, &captured).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (attach never blocks)", w.Code)
	}
	if resolvedKey != "" {
		t.Errorf("resolved key = %q, want empty", resolvedKey)
	}
	if captured.LoggedIn() {
		t.Error("expected anonymous identity in context")
	}
}

func TestAttachSession_CookiePresent_IdentityReachesContext(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "jpnance"}
	resolver := &fakeResolver{
		resolve: func(_ context.Context, key string) identity.Identity {
			if key != "cookie-key" {
				return identity.Anonymous()
			}
			return identityFor(user)
		},
	}

	var captured identity.Identity
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: "sessionKey", Value: "cookie-key"})
	newEngine(resolver, nil, &captured).ServeHTTP(w, req)

	if captured.User != user {
		t.Error("identity from the cookie did not reach the handler context")
	}
}

// ---- RequireLogin ----

func TestRequireLogin_Anonymous_RedirectsToLogin(t *testing.T) {
	resolver := &fakeResolver{
		resolve: func(_ context.Context, _ string) identity.Identity {
			return identity.Anonymous()
		},
	}

	var captured identity.Identity
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	newEngine(resolver, middleware.RequireLogin(), &captured).ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect to %q, want /login", loc)
	}
}

func TestRequireLogin_LoggedIn_Passes(t *testing.T) {
	resolver := &fakeResolver{
		resolve: func(_ context.Context, _ string) identity.Identity {
			return identityFor(&domain.User{ID: "u1"})
		},
	}

	var captured identity.Identity
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	newEngine(resolver, middleware.RequireLogin(), &captured).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// ---- RequireAdmin ----

func TestRequireAdmin_PlainUser_Returns403(t *testing.T) {
	resolver := &fakeResolver{
		resolve: func(_ context.Context, _ string) identity.Identity {
			return identityFor(&domain.User{ID: "u1"})
		},
	}

	var captured identity.Identity
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	newEngine(resolver, middleware.RequireAdmin(), &captured).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireAdmin_PretendingAdmin_KeepsAccess(t *testing.T) {
	admin := &domain.User{ID: "a", Admin: true}
	plain := &domain.User{ID: "b"}
	resolver := &fakeResolver{
		resolve: func(_ context.Context, _ string) identity.Identity {
			session := &domain.Session{Key: "sess", UserID: admin.ID, User: admin, PretendingTo: &plain.ID, PretendUser: plain}
			return identity.Identity{Session: session, User: admin, EffectiveUser: plain}
		},
	}

	var captured identity.Identity
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	newEngine(resolver, middleware.RequireAdmin(), &captured).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (gating uses the raw identity)", w.Code)
	}
	if captured.EffectiveUser != plain {
		t.Error("effective user should still be the pretend target")
	}
}

// ---- RequireAPIKey ----

func newAPIKeyEngine(key string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequireAPIKey(key))
	r.POST("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRequireAPIKey_Missing_Returns401(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/probe", nil)
	newAPIKeyEngine("sekrit-sekrit-sekrit").ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAPIKey_WrongKey_Returns401(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/probe", nil)
	req.Header.Set("Coinflipper-Api-Key", "wrong")
	newAPIKeyEngine("sekrit-sekrit-sekrit").ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAPIKey_Header_Passes(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/probe", nil)
	req.Header.Set("Coinflipper-Api-Key", "sekrit-sekrit-sekrit")
	newAPIKeyEngine("sekrit-sekrit-sekrit").ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRequireAPIKey_FormField_Passes(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/probe", strings.NewReader("apiKey=sekrit-sekrit-sekrit"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	newAPIKeyEngine("sekrit-sekrit-sekrit").ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
