package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/smarthomeo/fxclient/internal/core/domain"
	"github.com/smarthomeo/fxclient/internal/core/ports"
)

// Client-side routes. Landing, login and signup are public; the rest require
// an authenticated session.
const (
	RouteLanding   = "/"
	RouteLogin     = "/login"
	RouteSignup    = "/signup"
	RouteDashboard = "/dashboard"
	RouteProfile   = "/profile"
	RouteReferrals = "/referrals"
	RouteForex     = "/forex"
)

// View renders one screen.
type View func(ctx context.Context, w io.Writer) error

// UnauthorizedHandler invalidates the session after a rejected call.
type UnauthorizedHandler interface {
	HandleUnauthorized(ctx context.Context)
}

type route struct {
	view      View
	protected bool
}

// Router resolves a location to a view, enforcing the guard on protected
// routes. Unmatched locations are replace-redirected to the landing page, so
// they never linger in history.
type Router struct {
	routes map[string]route
	guard  *Guard
	auth   UnauthorizedHandler
	nav    ports.Navigator
	out    io.Writer
	log    zerolog.Logger
}

func NewRouter(guard *Guard, auth UnauthorizedHandler, nav ports.Navigator, out io.Writer, log zerolog.Logger) *Router {
	return &Router{
		routes: make(map[string]route),
		guard:  guard,
		auth:   auth,
		nav:    nav,
		out:    out,
		log:    log,
	}
}

func (r *Router) Handle(path string, v View) {
	r.routes[path] = route{view: v}
}

func (r *Router) HandleProtected(path string, v View) {
	r.routes[path] = route{view: v, protected: true}
}

// Render draws the screen for path. Redirects do not recurse: the caller
// re-renders from the navigator's current location, exactly like a browser
// responding to a location change.
func (r *Router) Render(ctx context.Context, path string) error {
	rt, ok := r.routes[path]
	if !ok {
		r.nav.Replace(RouteLanding)
		return nil
	}

	if rt.protected {
		switch r.guard.Check() {
		case Wait:
			// No route content while bootstrap is in flight: an explicit
			// loading indication avoids both a flash of content and a
			// premature redirect.
			fmt.Fprintln(r.out, "Loading...")
			return nil
		case RedirectLogin:
			r.nav.Replace(RouteLogin)
			return nil
		}
	}

	err := rt.view(ctx, r.out)
	if errors.Is(err, domain.ErrAuthenticationRequired) {
		r.log.Debug().Str("path", path).Msg("view rejected as unauthorized")
		r.auth.HandleUnauthorized(ctx)
		return nil
	}
	return err
}

// RenderCurrent draws the navigator's current location, following any
// location changes made while drawing (guard redirects, unmatched paths,
// unauthorized teardown) until the location settles on a drawn screen.
func (r *Router) RenderCurrent(ctx context.Context) error {
	for {
		path := r.nav.Current()
		if err := r.Render(ctx, path); err != nil {
			return err
		}
		if r.nav.Current() == path {
			return nil
		}
	}
}
