package app

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/smarthomeo/fxclient/internal/core/domain"
)

type stubUnauthorized struct {
	calls int
}

func (s *stubUnauthorized) HandleUnauthorized(_ context.Context) { s.calls++ }

func newTestRouter(state domain.AuthState) (*Router, *History, *stubUnauthorized, *bytes.Buffer) {
	nav := NewHistory(RouteLanding)
	auth := &stubUnauthorized{}
	out := &bytes.Buffer{}
	r := NewRouter(NewGuard(fixedState(state)), auth, nav, out, zerolog.Nop())
	return r, nav, auth, out
}

func staticView(text string) View {
	return func(_ context.Context, w io.Writer) error {
		io.WriteString(w, text)
		return nil
	}
}

func TestRouter_UnmatchedPathRedirectsToLanding(t *testing.T) {
	r, nav, _, _ := newTestRouter(domain.StateAuthenticated)
	r.Handle(RouteLanding, staticView("landing"))

	nav.Navigate("/nope")
	if err := r.Render(context.Background(), nav.Current()); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if nav.Current() != RouteLanding {
		t.Fatalf("expected redirect to landing, at %s", nav.Current())
	}
}

func TestRouter_ProtectedRouteRendersWhenAuthenticated(t *testing.T) {
	r, nav, _, out := newTestRouter(domain.StateAuthenticated)
	r.HandleProtected(RouteDashboard, staticView("dashboard"))

	nav.Navigate(RouteDashboard)
	if err := r.Render(context.Background(), nav.Current()); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(out.String(), "dashboard") {
		t.Fatalf("expected dashboard content, got %q", out.String())
	}
}

func TestRouter_ProtectedRouteRedirectsWhenUnauthenticated(t *testing.T) {
	r, nav, _, out := newTestRouter(domain.StateUnauthenticated)
	r.HandleProtected(RouteDashboard, staticView("dashboard"))

	nav.Navigate(RouteDashboard)
	if err := r.Render(context.Background(), nav.Current()); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if nav.Current() != RouteLogin {
		t.Fatalf("expected replace-redirect to login, at %s", nav.Current())
	}
	if strings.Contains(out.String(), "dashboard") {
		t.Fatalf("guarded content leaked: %q", out.String())
	}
	// replaced away, so back-navigation cannot reach the guarded route
	if got := nav.Back(); got == RouteDashboard {
		t.Fatalf("back-navigation returned to the guarded route")
	}
}

// A redirect must not leave the screen blank: RenderCurrent follows the
// location change and draws the target in the same pass.
func TestRouter_RenderCurrentDrawsRedirectTarget(t *testing.T) {
	r, nav, _, out := newTestRouter(domain.StateUnauthenticated)
	r.Handle(RouteLogin, staticView("sign in"))
	r.HandleProtected(RouteDashboard, staticView("dashboard"))

	nav.Navigate(RouteDashboard)
	if err := r.RenderCurrent(context.Background()); err != nil {
		t.Fatalf("RenderCurrent returned error: %v", err)
	}
	if nav.Current() != RouteLogin {
		t.Fatalf("expected to settle on login, at %s", nav.Current())
	}
	if !strings.Contains(out.String(), "sign in") {
		t.Fatalf("redirect target not drawn, got %q", out.String())
	}
}

func TestRouter_RenderCurrentFollowsUnmatchedPath(t *testing.T) {
	r, nav, _, out := newTestRouter(domain.StateAuthenticated)
	r.Handle(RouteLanding, staticView("landing"))

	nav.Navigate("/nope")
	if err := r.RenderCurrent(context.Background()); err != nil {
		t.Fatalf("RenderCurrent returned error: %v", err)
	}
	if !strings.Contains(out.String(), "landing") {
		t.Fatalf("landing not drawn after redirect, got %q", out.String())
	}
}

func TestRouter_LoadingShowsIndicatorOnly(t *testing.T) {
	r, nav, _, out := newTestRouter(domain.StateLoading)
	r.HandleProtected(RouteDashboard, staticView("dashboard"))

	nav.Navigate(RouteDashboard)
	if err := r.Render(context.Background(), nav.Current()); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Loading") {
		t.Fatalf("expected loading indication, got %q", out.String())
	}
	if strings.Contains(out.String(), "dashboard") {
		t.Fatalf("route content rendered while loading: %q", out.String())
	}
	if nav.Current() != RouteDashboard {
		t.Fatalf("loading must not redirect, at %s", nav.Current())
	}
}

func TestRouter_UnauthorizedViewInvalidatesSession(t *testing.T) {
	r, nav, auth, _ := newTestRouter(domain.StateAuthenticated)
	r.HandleProtected(RouteDashboard, func(_ context.Context, _ io.Writer) error {
		return domain.ErrAuthenticationRequired
	})

	nav.Navigate(RouteDashboard)
	if err := r.Render(context.Background(), nav.Current()); err != nil {
		t.Fatalf("unauthorized must be handled, not returned: %v", err)
	}
	if auth.calls != 1 {
		t.Fatalf("expected HandleUnauthorized once, got %d", auth.calls)
	}
}
