package pages

import (
	"github.com/vcrobe/nojs-messenger/render"
)

var templates = render.NewRegistry(nil).
	MustRegister("form-error", `{{if .}}<p class="form__error" role="alert">{{.}}</p>{{end}}`).
	MustRegister("form-fields", `{{range .}}<div class="form__field" data-component="field-{{.}}"></div>{{end}}`).
	MustRegister("auth-form", `<main class="auth-page">`+
		`<form class="form auth-form" id="{{.ID}}" novalidate>`+
		`<h1 class="form__title">{{.Title}}</h1>`+
		`{{template "form-fields" .Fields}}`+
		`{{template "form-error" .Error}}`+
		`<div class="form__actions" data-component="submit"></div>`+
		`<a class="form__link" href="{{.LinkHref}}">{{.LinkText}}</a>`+
		`</form></main>`).
	MustRegister("back-to", `<button type="button" class="back-to" data-back aria-label="Back">&larr;</button>`).
	MustRegister("profile-form", `<main class="profile-page">{{template "back-to"}}`+
		`<form class="form profile-form" id="{{.ID}}" novalidate>`+
		`<h1 class="form__title">{{.Title}}</h1>`+
		`{{template "form-fields" .Fields}}`+
		`{{template "form-error" .Error}}`+
		`<div class="form__actions" data-component="submit"></div>`+
		`</form></main>`).
	MustRegister("profile", `<main class="profile-page">{{template "back-to"}}`+
		`<section class="profile">`+
		`<img class="profile__avatar" src="{{.Avatar}}" alt="Avatar">`+
		`<h1 class="profile__name">{{.Name}}</h1>`+
		`{{template "form-error" .Error}}`+
		`<dl class="profile__fields">{{range .Fields}}`+
		`<div class="profile__field"><dt>{{.Label}}</dt><dd>{{.Value}}</dd></div>`+
		`{{end}}</dl>`+
		`<nav class="profile__actions">`+
		`<a class="profile__link" href="/settings/edit">Edit profile</a>`+
		`<a class="profile__link" href="/settings/password">Change password</a>`+
		`<button type="button" class="profile__logout" data-action="logout">Sign out</button>`+
		`</nav></section></main>`).
	MustRegister("chat-item", `<li class="chat-item{{if .Active}} chat-item--active{{end}}" data-chat-id="{{.ID}}">`+
		`<img class="chat-item__avatar" src="{{.Avatar}}" alt="">`+
		`<div class="chat-item__body"><span class="chat-item__title">{{.Title}}</span>`+
		`<span class="chat-item__last">{{.LastMessage}}</span></div>`+
		`<div class="chat-item__meta"><time class="chat-item__time">{{.Time}}</time>`+
		`{{if .Unread}}<span class="chat-item__unread">{{.Unread}}</span>{{end}}</div>`+
		`</li>`).
	MustRegister("chat-message", `<li class="message{{if .Own}} message--own{{end}}{{if .Pending}} message--pending{{end}}">`+
		`{{if .Image}}<img class="message__image" src="{{.Image}}" alt="">{{else}}<p class="message__text">{{.Text}}</p>{{end}}`+
		`<time class="message__time">{{.Time}}</time></li>`).
	MustRegister("chat-content", `<header class="chat-content__header">`+
		`<span class="chat-content__title">{{.Title}}</span>`+
		`<div class="chat-content__actions">`+
		`<button type="button" data-action="add-user">Add user</button>`+
		`<button type="button" data-action="remove-user">Remove user</button>`+
		`<button type="button" data-action="delete-chat">Delete chat</button>`+
		`</div></header>`+
		`<ul class="chat-content__messages">{{range .Messages}}{{template "chat-message" .}}{{end}}</ul>`+
		`<form class="chat-content__form" novalidate>`+
		`<div class="chat-content__input" data-component="message-input"></div>`+
		`<div class="chat-content__send" data-component="send-button"></div>`+
		`</form>`).
	MustRegister("messenger", `<div class="chat-layout">`+
		`<aside class="chat-sidebar"><header class="chat-sidebar__header">`+
		`<a class="chat-sidebar__profile" href="/settings">Profile</a>`+
		`<button type="button" class="chat-sidebar__create" data-action="create-chat">New chat</button>`+
		`</header>`+
		`{{template "form-error" .Error}}`+
		`<ul class="chat-list">{{range .Chats}}{{template "chat-item" .}}{{else}}<li class="chat-list__empty">No chats yet</li>{{end}}</ul>`+
		`</aside>`+
		`<section class="chat-content">{{with .Active}}{{template "chat-content" .}}`+
		`{{else}}<p class="chat-content__placeholder">Select a chat to start messaging</p>{{end}}</section>`+
		`</div>`)
