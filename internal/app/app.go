// Package app assembles the messenger client. It registers every page on the
// router and derives the initial authentication state before the first
// navigation.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/vcrobe/nojs-messenger/dialogs"
	"github.com/vcrobe/nojs-messenger/internal/api"
	"github.com/vcrobe/nojs-messenger/internal/app/pages"
	"github.com/vcrobe/nojs-messenger/internal/chatsocket"
	"github.com/vcrobe/nojs-messenger/internal/config"
	"github.com/vcrobe/nojs-messenger/logger"
	"github.com/vcrobe/nojs-messenger/router"
)

// Paths of the registered pages.
const (
	PathLogin    = "/"
	PathSignUp   = "/sign-up"
	PathMessages = "/messenger"
	PathChat     = "/messenger/{chatId}"
	PathProfile  = "/settings"
	PathEdit     = "/settings/edit"
	PathPassword = "/settings/password"
	PathNotFound = "/404"
	PathError    = "/500"
)

// Options are the collaborators of an App.
type Options struct {
	Config   *config.Config
	HTTP     api.Requester
	Dialer   chatsocket.Dialer
	Dialogs  dialogs.Prompter
	Logger   *logger.Logger
	Spawn    func(fn func())
	Location *time.Location
}

// App is a configured messenger client.
type App struct {
	router *router.Router
	deps   *pages.Deps
	log    *logger.Logger
}

// RouterOptions returns the router settings described by cfg.
func RouterOptions(cfg *config.Config, log *logger.Logger) router.Options {
	return router.Options{
		RootQuery: cfg.Router.Root,
		Logger:    log,
		Guard: &router.Guard{
			Protected: cfg.Router.Protected,
			GuestOnly: cfg.Router.GuestOnly,
			LoginPath: cfg.Router.LoginPath,
			HomePath:  cfg.Router.HomePath,
		},
	}
}

// New registers the pages on r.
func New(r *router.Router, opts Options) *App {
	log := logger.OrNop(opts.Logger)
	deps := &pages.Deps{
		API:      api.New(opts.Config.API.BaseURL, opts.HTTP, log),
		Nav:      r,
		Config:   opts.Config,
		Dialogs:  opts.Dialogs,
		Dialer:   opts.Dialer,
		Session:  pages.NewSession(),
		Log:      log,
		Spawn:    opts.Spawn,
		Location: opts.Location,
	}
	Routes(r, deps)
	return &App{router: r, deps: deps, log: log.Named("app")}
}

// Routes registers every page of the messenger on r.
func Routes(r *router.Router, deps *pages.Deps) {
	r.Use(PathLogin, pages.Login(deps)).
		Use(PathSignUp, pages.SignUp(deps)).
		Use(PathMessages, pages.Messenger(deps)).
		Use(PathChat, pages.Messenger(deps)).
		Use(PathProfile, pages.Profile(deps)).
		Use(PathEdit, pages.ProfileEdit(deps)).
		Use(PathPassword, pages.Password(deps)).
		Use(PathNotFound, pages.NotFound()).
		Use(PathError, pages.ServerError()).
		Use(router.Wildcard, pages.NotFound())
}

// Router returns the router the pages are registered on.
func (a *App) Router() *router.Router { return a.router }

// Session returns the signed-in user cache shared by the pages.
func (a *App) Session() *pages.Session { return a.deps.Session }

// Start asks the API for the current user and starts the router. A rejected
// session starts signed out; any other probe failure shows the error page.
func (a *App) Start(ctx context.Context) error {
	u, err := a.deps.API.User(ctx)
	switch {
	case err == nil:
		a.deps.Session.SetUser(u)
		a.router.SetAuth(true)
		a.log.Infow("session restored", "user", u.ID)
	case errors.Is(err, api.ErrUnauthorized):
		a.router.SetAuth(false)
	default:
		a.log.Errorw("session probe failed", "error", err)
		if err := a.router.Start(); err != nil {
			return err
		}
		return a.router.Go(PathError)
	}
	return a.router.Start()
}

// Stop detaches the router from the document and history.
func (a *App) Stop() {
	if r := a.router.Current(); r != nil {
		r.Leave()
	}
	a.router.Stop()
}
