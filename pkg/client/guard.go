package client

// Default routes used by guard decisions.
const (
	RouteLogin     = "/login"
	RouteResources = "/resources"
)

// Decision is the outcome of a guard check. Allowed means the caller may
// proceed; otherwise RedirectTo names where to go instead, or is empty when
// the caller is already there.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Guard gates navigation on authentication state. It always settles the
// session store first, so a freshly started process with a persisted session
// is never bounced to login before the restore has run.
type Guard struct {
	sessions   *SessionStore
	loginRoute string
	homeRoute  string
}

func NewGuard(sessions *SessionStore) *Guard {
	return &Guard{
		sessions:   sessions,
		loginRoute: RouteLogin,
		homeRoute:  RouteResources,
	}
}

// RequireAuthenticated admits any authenticated session. Anonymous callers
// are sent to login, except when already on the login route, which would
// otherwise loop.
func (g *Guard) RequireAuthenticated(current string) Decision {
	g.sessions.Restore()
	if g.sessions.Authenticated() {
		return Decision{Allowed: true}
	}
	if current == g.loginRoute {
		return Decision{}
	}
	return Decision{RedirectTo: g.loginRoute}
}

// RequireAdmin admits only admin sessions. Authenticated non-admins land on
// the default route rather than login: they have a session, just not the
// role.
func (g *Guard) RequireAdmin(current string) Decision {
	g.sessions.Restore()
	if g.sessions.IsAdmin() {
		return Decision{Allowed: true}
	}
	if g.sessions.Authenticated() {
		if current == g.homeRoute {
			return Decision{}
		}
		return Decision{RedirectTo: g.homeRoute}
	}
	if current == g.loginRoute {
		return Decision{}
	}
	return Decision{RedirectTo: g.loginRoute}
}

// RedirectAuthenticated is the inverse gate for the login route itself:
// a caller who already has a session is sent to the default route.
func (g *Guard) RedirectAuthenticated() Decision {
	g.sessions.Restore()
	if g.sessions.Authenticated() {
		return Decision{RedirectTo: g.homeRoute}
	}
	return Decision{Allowed: true}
}
