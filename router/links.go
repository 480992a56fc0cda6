package router

import (
	"net/url"

	"github.com/vcrobe/nojs-messenger/dom"
)

// handleClick routes plain primary clicks on same-origin links through Go.
// Elements marked with data-back trigger history back instead.
func (r *Router) handleClick(e dom.Event) {
	me, ok := e.(dom.MouseEvent)
	if !ok || me.DefaultPrevented() {
		return
	}
	if me.Button() != 0 || me.MetaKey() || me.CtrlKey() || me.ShiftKey() || me.AltKey() {
		return
	}

	target := me.Target()
	if target == nil {
		return
	}
	if target.Closest("[data-back]") != nil {
		me.PreventDefault()
		r.Back()
		return
	}

	anchor := target.Closest("a")
	if anchor == nil {
		return
	}
	if t, ok := anchor.GetAttribute("target"); ok && t != "" && t != "_self" {
		return
	}
	if anchor.HasAttribute("download") {
		return
	}
	href, _ := anchor.GetAttribute("href")
	if href == "" || href[0] == '#' {
		return
	}

	u, ok := r.resolve(href)
	if !ok {
		return
	}

	me.PreventDefault()
	if err := r.Go(u.Path); err != nil {
		r.log.Errorw("navigation from link failed", "href", href, "error", err)
	}
}

// resolve returns href as an absolute URL when it is on the page's origin.
func (r *Router) resolve(href string) (*url.URL, bool) {
	base, err := url.Parse(r.history.Origin() + "/")
	if err != nil {
		return nil, false
	}
	u, err := base.Parse(href)
	if err != nil {
		return nil, false
	}
	if u.Scheme != base.Scheme || u.Host != base.Host {
		return nil, false
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, true
}
