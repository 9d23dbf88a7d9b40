package guard

import "strings"

// Decision is the outcome of classifying a navigation.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToApp
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToApp:
		return "redirect_to_app"
	default:
		return "unknown"
	}
}

const (
	LoginPath     = "/auth"
	AppPath       = "/dashboard"
	RootPath      = "/"
	protectedTree = "/dashboard"
)

// Prefixes excluded from gating: API proxy, static assets and
// infrastructure endpoints are always reachable.
var excludedPrefixes = []string{
	"/api/",
	"/auth/api/",
	"/static/",
	"/assets/",
	"/health",
	"/favicon.ico",
}

var excludedSuffixes = []string{
	".ico", ".png", ".jpg", ".svg", ".css", ".js", ".map", ".woff2",
}

// Decide classifies a navigation. It is pure and total: every path
// yields exactly one decision, and the rules are evaluated in strict
// precedence order so no path is ambiguous.
func Decide(path string, authenticated bool) Decision {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return Allow
		}
	}
	for _, suffix := range excludedSuffixes {
		if strings.HasSuffix(path, suffix) {
			return Allow
		}
	}

	if path == RootPath {
		if authenticated {
			return RedirectToApp
		}
		return RedirectToLogin
	}

	if isUnder(path, protectedTree) && !authenticated {
		return RedirectToLogin
	}

	if path == LoginPath && authenticated {
		return RedirectToApp
	}

	return Allow
}

// isUnder reports whether path is tree itself or inside it, without
// matching sibling prefixes like /dashboardx.
func isUnder(path, tree string) bool {
	if path == tree {
		return true
	}
	return strings.HasPrefix(path, tree+"/")
}
