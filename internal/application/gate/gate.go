// Package gate decides per request whether a path may be reached, from the
// path and whether an identity is present. It holds no state.
package gate

import (
	"path"
	"strings"
)

const (
	SignupArea    = "/signup"
	DashboardArea = "/dashboard"

	// LandingPath is where signed-in users are sent away from sign-up.
	LandingPath = "/dashboard"
	SignInPath  = "/login"
)

type Decision struct {
	Allow    bool
	Redirect string
}

var allow = Decision{Allow: true}

func Authorize(identityPresent bool, requestPath string) Decision {
	p := normalize(requestPath)

	switch {
	case under(p, SignupArea):
		if identityPresent {
			return Decision{Redirect: LandingPath}
		}
		return allow
	case under(p, DashboardArea):
		if !identityPresent {
			return Decision{Redirect: SignInPath}
		}
		return allow
	default:
		return allow
	}
}

// under matches whole path segments: /signup and /signup/x, not /signupx.
func under(p, area string) bool {
	return p == area || strings.HasPrefix(p, area+"/")
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
