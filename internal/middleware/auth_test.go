package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"newsdesk/internal/session"
)

// okHandler records whether it was reached.
type okHandler struct {
	called bool
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	w.WriteHeader(http.StatusOK)
}

// ctxWithSession attaches session data the way LoadSession would.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

func TestRequireAuth_NoSession(t *testing.T) {
	next := &okHandler{}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()

	RequireAuth(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if next.called {
		t.Error("handler ran without a session")
	}
}

func TestRequireAuth_PendingTwoFA(t *testing.T) {
	next := &okHandler{}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(ctxWithSession(req.Context(), &session.Data{
		UserID: uuid.New(), Username: "alice", IsAdmin: true, TwoFAPending: true,
	}))
	rec := httptest.NewRecorder()

	RequireAuth(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for pending 2FA", rec.Code)
	}
	if next.called {
		t.Error("handler ran with a pending 2FA session")
	}
}

func TestRequireAuth_ValidSession(t *testing.T) {
	next := &okHandler{}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(ctxWithSession(req.Context(), &session.Data{
		UserID: uuid.New(), Username: "alice",
	}))
	rec := httptest.NewRecorder()

	RequireAuth(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !next.called {
		t.Fatalf("status = %d, called = %v; want pass-through", rec.Code, next.called)
	}
}

func TestRequireAdmin_NonAdmin(t *testing.T) {
	next := &okHandler{}
	req := httptest.NewRequest(http.MethodPost, "/api/articles", nil)
	req = req.WithContext(ctxWithSession(req.Context(), &session.Data{
		UserID: uuid.New(), Username: "reader", IsAdmin: false,
	}))
	rec := httptest.NewRecorder()

	RequireAdmin(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if next.called {
		t.Error("handler ran for non-admin")
	}
}

func TestRequireAdmin_Admin(t *testing.T) {
	next := &okHandler{}
	req := httptest.NewRequest(http.MethodPost, "/api/articles", nil)
	req = req.WithContext(ctxWithSession(req.Context(), &session.Data{
		UserID: uuid.New(), Username: "boss", IsAdmin: true,
	}))
	rec := httptest.NewRecorder()

	RequireAdmin(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !next.called {
		t.Fatalf("status = %d, called = %v; want pass-through", rec.Code, next.called)
	}
}

func TestIsAdmin(t *testing.T) {
	if IsAdmin(context.Background()) {
		t.Error("IsAdmin with no session = true")
	}
	ctx := ctxWithSession(context.Background(), &session.Data{IsAdmin: true, TwoFAPending: true})
	if IsAdmin(ctx) {
		t.Error("IsAdmin with pending 2FA = true")
	}
	ctx = ctxWithSession(context.Background(), &session.Data{IsAdmin: true})
	if !IsAdmin(ctx) {
		t.Error("IsAdmin with admin session = false")
	}
}
