package api

import (
	"errors"
	"strconv"
	"strings"
)

// ResourceURL resolves a resource reference returned by the API. Absolute
// URLs are returned unchanged, paths are served from /resources, and numeric
// file ids are looked up in known.
func ResourceURL(baseURL, content string, known map[int]string) string {
	if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
		return content
	}
	base := strings.TrimSuffix(baseURL, "/") + "/resources"
	if strings.HasPrefix(content, "/") {
		return base + content
	}
	if id, err := strconv.Atoi(content); err == nil && known != nil {
		if path, ok := known[id]; ok && path != "" {
			return base + path
		}
	}
	return base + "/" + content
}

// Navigator is the part of the router AuthGuard needs.
type Navigator interface {
	SetAuth(authenticated bool)
	Go(path string) error
}

// AuthGuard returns a check for API errors: on ErrUnauthorized it marks the
// session as signed out, navigates to redirect and reports true.
func AuthGuard(nav Navigator, redirect string) func(err error) bool {
	return func(err error) bool {
		if !errors.Is(err, ErrUnauthorized) {
			return false
		}
		nav.SetAuth(false)
		_ = nav.Go(redirect)
		return true
	}
}
