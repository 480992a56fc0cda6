package pages

import (
	"context"

	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/internal/api"
	"github.com/vcrobe/nojs-messenger/props"
	"github.com/vcrobe/nojs-messenger/runtime"
)

const defaultAvatar = "/icon.svg"

type profileField struct {
	Label string
	Value string
}

type profileData struct {
	Avatar string
	Name   string
	Error  string
	Fields []profileField
}

// profile shows the signed-in user and signs them out.
type profile struct {
	runtime.ComponentBase

	deps        *Deps
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
}

// Profile is the profile page.
func Profile(deps *Deps) runtime.Factory {
	return func(doc dom.Document, initial props.Values) (*runtime.Component, error) {
		v := &profile{deps: deps}
		v.ctx, v.cancel = context.WithCancel(context.Background())
		p := initial.Clone()
		p["user"] = deps.Session.User()
		p[runtime.EventsKey] = runtime.Events{"click": v.onClick}
		c, err := runtime.New(doc, "div", p, v)
		if err != nil {
			v.cancel()
			return nil, err
		}
		return c, nil
	}
}

func (v *profile) Render(p props.Values) runtime.Content {
	u, _ := p["user"].(*api.User)
	data := profileData{Avatar: defaultAvatar, Error: p.String("error")}
	if u != nil {
		data.Name = u.Name()
		if u.Avatar != "" {
			data.Avatar = api.ResourceURL(v.deps.API.BaseURL(), u.Avatar, nil)
		}
		data.Fields = []profileField{
			{Label: "Email", Value: u.Email},
			{Label: "Login", Value: u.Login},
			{Label: "First name", Value: u.FirstName},
			{Label: "Last name", Value: u.SecondName},
			{Label: "Display name", Value: u.DisplayName},
			{Label: "Phone", Value: u.Phone},
		}
	}
	markup, err := templates.Execute("profile", data)
	if err != nil {
		return runtime.Failure(err)
	}
	return runtime.HTML(markup)
}

func (v *profile) ComponentDidMount() {
	if v.unsubscribe == nil {
		v.unsubscribe = v.deps.Session.OnChange(func() {
			if v.Alive() {
				_ = v.SetProps(props.Values{"user": v.deps.Session.User()})
			}
		})
	}
	if v.deps.Session.User() != nil {
		return
	}
	v.deps.spawn(func() {
		_, err := v.deps.Session.Load(v.ctx, v.deps.API)
		if err == nil || !v.Alive() || v.deps.unauthorized(err) {
			return
		}
		_ = v.SetProps(props.Values{"error": errorMessage(err)})
	})
}

func (v *profile) onClick(e dom.Event) {
	t := e.Target()
	if t == nil || t.Closest(`[data-action="logout"]`) == nil {
		return
	}
	e.PreventDefault()
	v.deps.spawn(v.signOut)
}

func (v *profile) signOut() {
	if err := v.deps.API.SignOut(v.ctx); err != nil && !v.deps.unauthorized(err) {
		v.deps.log("profile").Warnw("sign out failed", "error", err)
		if v.Alive() {
			_ = v.SetProps(props.Values{"error": errorMessage(err)})
		}
		return
	}
	v.deps.Session.SetUser(nil)
	v.deps.Nav.SetAuth(false)
	if err := v.deps.Nav.Go(v.deps.Config.Router.LoginPath); err != nil {
		v.deps.log("profile").Errorw("navigation failed", "error", err)
	}
}

func (v *profile) ComponentWillDestroy() {
	v.cancel()
	if v.unsubscribe != nil {
		v.unsubscribe()
	}
}
