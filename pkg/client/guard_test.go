package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

func seedSessionFile(t *testing.T, path string, sess Session) {
	t.Helper()
	raw, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("seed session file: %v", err)
	}
}

func TestGuardRestoresBeforeDeciding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	seedSessionFile(t, path, testSession())
	store := NewSessionStore(NewFileStorage(path), zerolog.Nop())
	guard := NewGuard(store)

	// The guard must not bounce a persisted session to login just because
	// the store has not been restored yet.
	d := guard.RequireAuthenticated(RouteResources)
	if !d.Allowed {
		t.Fatalf("decision = %+v, want allowed", d)
	}
}

func TestGuardRequireAuthenticated(t *testing.T) {
	store, _ := newTestStore(t)
	guard := NewGuard(store)

	d := guard.RequireAuthenticated("/bookings")
	if d.Allowed || d.RedirectTo != RouteLogin {
		t.Fatalf("decision = %+v, want redirect to login", d)
	}

	// Already on login: deny without a redirect, or we loop forever.
	d = guard.RequireAuthenticated(RouteLogin)
	if d.Allowed || d.RedirectTo != "" {
		t.Fatalf("decision = %+v, want plain denial", d)
	}

	if err := store.Establish(testSession()); err != nil {
		t.Fatalf("establish: %v", err)
	}
	if d = guard.RequireAuthenticated("/bookings"); !d.Allowed {
		t.Fatalf("decision = %+v, want allowed", d)
	}
}

func TestGuardRequireAdmin(t *testing.T) {
	store, _ := newTestStore(t)
	guard := NewGuard(store)

	d := guard.RequireAdmin("/admin")
	if d.Allowed || d.RedirectTo != RouteLogin {
		t.Fatalf("anonymous decision = %+v, want redirect to login", d)
	}

	if err := store.Establish(testSession()); err != nil {
		t.Fatalf("establish: %v", err)
	}
	d = guard.RequireAdmin("/admin")
	if d.Allowed || d.RedirectTo != RouteResources {
		t.Fatalf("non-admin decision = %+v, want redirect home", d)
	}
	if d = guard.RequireAdmin(RouteResources); d.Allowed || d.RedirectTo != "" {
		t.Fatalf("decision = %+v, want plain denial on home route", d)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	admin := testSession()
	admin.User.ID = "u-admin"
	admin.User.Role = domain.RoleAdmin
	if err := store.Establish(admin); err != nil {
		t.Fatalf("establish: %v", err)
	}
	if d = guard.RequireAdmin("/admin"); !d.Allowed {
		t.Fatalf("admin decision = %+v, want allowed", d)
	}
}

func TestGuardRedirectAuthenticated(t *testing.T) {
	store, _ := newTestStore(t)
	guard := NewGuard(store)

	if d := guard.RedirectAuthenticated(); !d.Allowed {
		t.Fatalf("anonymous decision = %+v, want allowed", d)
	}

	if err := store.Establish(testSession()); err != nil {
		t.Fatalf("establish: %v", err)
	}
	d := guard.RedirectAuthenticated()
	if d.Allowed || d.RedirectTo != RouteResources {
		t.Fatalf("decision = %+v, want redirect home", d)
	}
}
