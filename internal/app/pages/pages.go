// Package pages holds the screens of the messenger. Every page is a
// runtime.View built by a runtime.Factory, so the router creates, updates and
// destroys them.
package pages

import (
	"context"
	"errors"
	"time"

	"github.com/vcrobe/nojs-messenger/dialogs"
	"github.com/vcrobe/nojs-messenger/internal/api"
	"github.com/vcrobe/nojs-messenger/internal/chatsocket"
	"github.com/vcrobe/nojs-messenger/internal/config"
	"github.com/vcrobe/nojs-messenger/logger"
	"github.com/vcrobe/nojs-messenger/props"
	"github.com/vcrobe/nojs-messenger/router"
	"github.com/vcrobe/nojs-messenger/signals"
)

// Navigator is the part of the router pages use.
type Navigator interface {
	Go(path string) error
	Back()
	SetAuth(authenticated bool)
	Authenticated() bool
}

// Deps are the collaborators shared by every page.
type Deps struct {
	API     *api.Client
	Nav     Navigator
	Config  *config.Config
	Dialogs dialogs.Prompter
	Dialer  chatsocket.Dialer
	Session *Session
	Log     *logger.Logger

	// Spawn runs blocking work outside the event callback that started it.
	// Nil means a new goroutine.
	Spawn func(fn func())

	// Location is the zone message times are shown in. Nil means time.Local.
	Location *time.Location
}

func (d *Deps) spawn(fn func()) {
	if d.Spawn != nil {
		d.Spawn(fn)
		return
	}
	go fn()
}

func (d *Deps) log(name string) *logger.Logger {
	return logger.OrNop(d.Log).Named(name)
}

func (d *Deps) location() *time.Location {
	if d.Location != nil {
		return d.Location
	}
	return time.Local
}

// unauthorized signs the session out and redirects to the login page when err
// is a 401 from the API.
func (d *Deps) unauthorized(err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	d.Session.SetUser(nil)
	return api.AuthGuard(d.Nav, d.Config.Router.LoginPath)(err)
}

// Session caches the signed-in user.
type Session struct {
	user *signals.Signal[*api.User]
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{user: signals.NewSignal[*api.User](nil)}
}

// User returns the cached user, or nil.
func (s *Session) User() *api.User { return s.user.Get() }

// SetUser replaces the cached user and notifies subscribers.
func (s *Session) SetUser(u *api.User) { s.user.Set(u) }

// OnChange subscribes fn to user changes.
func (s *Session) OnChange(fn func()) (unsubscribe func()) {
	return s.user.Subscribe(fn)
}

// Load returns the cached user, fetching it first when there is none.
func (s *Session) Load(ctx context.Context, c *api.Client) (*api.User, error) {
	if u := s.User(); u != nil {
		return u, nil
	}
	u, err := c.User(ctx)
	if err != nil {
		return nil, err
	}
	s.SetUser(u)
	return u, nil
}

// errorMessage is the text shown for a failed request.
func errorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Reason != "" {
		return apiErr.Reason
	}
	if errors.Is(err, context.Canceled) {
		return ""
	}
	return "Something went wrong, please try again later"
}

// param reads a route parameter from the properties the router passes.
func param(p props.Values, key string) string {
	switch params := p[router.ParamsKey].(type) {
	case router.Params:
		return params[key]
	case map[string]string:
		return params[key]
	}
	return ""
}

// formatTime renders an API timestamp as hours and minutes in loc, or ""
// when value is not a timestamp.
func formatTime(value string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return ""
	}
	return t.In(loc).Format("15:04")
}

func userValues(u *api.User) map[string]string {
	if u == nil {
		return map[string]string{}
	}
	return map[string]string{
		"email":        u.Email,
		"login":        u.Login,
		"first_name":   u.FirstName,
		"second_name":  u.SecondName,
		"display_name": u.DisplayName,
		"phone":        u.Phone,
	}
}
