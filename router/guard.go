package router

import "strings"

// Guard redirects navigation based on the authentication state.
type Guard struct {
	// Protected prefixes require an authenticated session.
	Protected []string
	// GuestOnly prefixes require the absence of one.
	GuestOnly []string
	// LoginPath is where unauthenticated visitors of a protected path go.
	LoginPath string
	// HomePath is where authenticated visitors of a guest-only path go.
	HomePath string
}

// Redirect returns the path navigation to path should go to instead, if any.
// No redirect is reported when the target equals path.
func (g *Guard) Redirect(path string, authenticated bool) (string, bool) {
	if g == nil {
		return "", false
	}
	target := ""
	switch {
	case !authenticated && matchAny(path, g.Protected):
		target = g.LoginPath
	case authenticated && matchAny(path, g.GuestOnly):
		target = g.HomePath
	}
	if target == "" || target == path {
		return "", false
	}
	return target, true
}

func matchAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if hasPathPrefix(path, p) {
			return true
		}
	}
	return false
}

// hasPathPrefix reports whether path is prefix or lies below it. The root
// prefix matches only itself.
func hasPathPrefix(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	if prefix == "/" {
		return path == "/"
	}
	prefix = strings.TrimSuffix(prefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
