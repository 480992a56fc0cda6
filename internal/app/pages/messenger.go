package pages

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/internal/api"
	"github.com/vcrobe/nojs-messenger/internal/app/components"
	"github.com/vcrobe/nojs-messenger/internal/chatsocket"
	"github.com/vcrobe/nojs-messenger/logger"
	"github.com/vcrobe/nojs-messenger/props"
	"github.com/vcrobe/nojs-messenger/render"
	"github.com/vcrobe/nojs-messenger/runtime"
)

// Property keys of the messenger page.
const (
	chatsKey    = "chats"
	activeKey   = "activeId"
	messagesKey = "messages"
	errorKey    = "error"
)

const messengerPath = "/messenger"

// message is one entry of the active conversation.
type message struct {
	ID      int
	Text    string
	Image   string
	Time    string
	Own     bool
	Pending bool
}

type chatItem struct {
	ID          int
	Title       string
	Avatar      string
	LastMessage string
	Time        string
	Unread      int
	Active      bool
}

type activeChat struct {
	Title    string
	Messages []message
}

type messengerData struct {
	Error  string
	Chats  []chatItem
	Active *activeChat
}

// messenger lists the chats and runs the conversation selected by the
// {chatId} route parameter over a chat socket.
type messenger struct {
	runtime.ComponentBase

	deps   *Deps
	doc    dom.Document
	log    *logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
	socket *chatsocket.Socket

	activeID int
	// files maps shared file ids to their resource paths.
	files map[int]string

	input *components.Input
	send  *components.Button
}

// Messenger is the chat page.
func Messenger(deps *Deps) runtime.Factory {
	return func(doc dom.Document, initial props.Values) (*runtime.Component, error) {
		m := &messenger{
			deps:  deps,
			doc:   doc,
			log:   deps.log("messenger"),
			files: make(map[int]string),
		}
		m.ctx, m.cancel = context.WithCancel(context.Background())
		m.socket = chatsocket.New(deps.Config.Socket.BaseURL, deps.Dialer, chatsocket.Handlers{
			OnMessage: m.onSocketMessage,
			OnError:   m.onSocketError,
			OnClose:   func() { m.log.Debugw("socket closed", "chat", m.activeID) },
		}, chatsocket.WithPingInterval(deps.Config.Socket.PingInterval), chatsocket.WithLogger(deps.Log))

		p := initial.Clone()
		p[runtime.EventsKey] = runtime.Events{"click": m.onClick, "submit": m.onSubmit}
		c, err := runtime.New(doc, "div", p, m)
		if err != nil {
			m.cancel()
			return nil, err
		}
		return c, nil
	}
}

func (m *messenger) controls() error {
	if m.send != nil {
		return nil
	}
	in, err := components.NewInput(m.doc, props.Values{
		"name":        "message",
		"placeholder": "Message",
		"required":    true,
	})
	if err != nil {
		return err
	}
	b, err := components.NewButton(m.doc, props.Values{"text": "Send", "type": "submit"})
	if err != nil {
		return err
	}
	m.input, m.send = in, b
	return nil
}

func (m *messenger) Render(p props.Values) runtime.Content {
	if err := m.controls(); err != nil {
		return runtime.Failure(err)
	}
	markup, err := templates.Execute("messenger", m.data(p))
	if err != nil {
		return runtime.Failure(err)
	}
	root, err := m.doc.CreateElement("div")
	if err != nil {
		return runtime.Failure(err)
	}
	err = render.WithComponents(root, markup, map[string]*runtime.Component{
		"message-input": m.input.Component(),
		"send-button":   m.send.Component(),
	})
	if err != nil {
		return runtime.Failure(err)
	}
	return runtime.Node(root)
}

func (m *messenger) data(p props.Values) messengerData {
	chats, _ := p[chatsKey].([]api.Chat)
	activeID := p.Int(activeKey)
	loc := m.deps.location()

	data := messengerData{Error: p.String(errorKey)}
	for _, c := range chats {
		item := chatItem{
			ID:     c.ID,
			Title:  c.Title,
			Avatar: defaultAvatar,
			Unread: c.UnreadCount,
			Active: c.ID == activeID,
		}
		if c.Avatar != "" {
			item.Avatar = api.ResourceURL(m.deps.API.BaseURL(), c.Avatar, nil)
		}
		if c.LastMessage != nil {
			item.LastMessage = c.LastMessage.Content
			item.Time = formatTime(c.LastMessage.Time, loc)
		}
		data.Chats = append(data.Chats, item)
	}

	if activeID != 0 {
		active := &activeChat{Title: fmt.Sprintf("Chat %d", activeID)}
		for _, c := range chats {
			if c.ID == activeID {
				active.Title = c.Title
			}
		}
		active.Messages, _ = p[messagesKey].([]message)
		data.Active = active
	}
	return data
}

func (m *messenger) ComponentDidMount() {
	m.loadChats()
	m.applyParams(m.Component().Props())
}

func (m *messenger) ComponentDidUpdate(old, current props.Values) bool {
	if param(old, "chatId") != param(current, "chatId") {
		m.applyParams(current)
	}
	return true
}

func (m *messenger) ComponentWillDestroy() {
	m.socket.Close()
	m.cancel()
	if m.input != nil {
		m.input.Component().Destroy()
	}
	if m.send != nil {
		m.send.Component().Destroy()
	}
}

func (m *messenger) setProps(p props.Values) {
	if !m.Alive() {
		return
	}
	if err := m.SetProps(p); err != nil {
		m.log.Errorw("render failed", "error", err)
	}
}

// fail shows err unless it ended the session.
func (m *messenger) fail(op string, err error) {
	if m.deps.unauthorized(err) {
		return
	}
	m.log.Warnw(op+" failed", "error", err)
	if msg := errorMessage(err); msg != "" {
		m.setProps(props.Values{errorKey: msg})
	}
}

func (m *messenger) loadChats() {
	m.deps.spawn(func() {
		chats, err := m.deps.API.Chats(m.ctx, api.ChatsQuery{})
		if !m.Alive() {
			return
		}
		if err != nil {
			m.fail("load chats", err)
			return
		}
		m.setProps(props.Values{chatsKey: chats, errorKey: ""})
	})
}

// applyParams opens the chat named by the route, or closes the open one when
// the route names none.
func (m *messenger) applyParams(p props.Values) {
	raw := param(p, "chatId")
	if raw == "" {
		if m.activeID != 0 {
			m.socket.Close()
			m.activeID = 0
			m.setProps(props.Values{activeKey: 0, messagesKey: []message(nil)})
		}
		return
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 || id == m.activeID {
		return
	}

	m.socket.Close()
	m.activeID = id
	m.files = make(map[int]string)
	m.setProps(props.Values{activeKey: id, messagesKey: []message(nil)})
	m.connect(id)
}

func (m *messenger) connect(chatID int) {
	m.deps.spawn(func() {
		user, err := m.deps.Session.Load(m.ctx, m.deps.API)
		if err != nil {
			if m.Alive() {
				m.fail("load user", err)
			}
			return
		}
		token, err := m.deps.API.ChatToken(m.ctx, chatID)
		if err != nil {
			if m.Alive() {
				m.fail("chat token", err)
			}
			return
		}
		if files, err := m.deps.API.ChatFiles(m.ctx, chatID); err == nil {
			for _, f := range files {
				m.files[f.ID] = f.Path
			}
		} else {
			m.log.Debugw("chat files unavailable", "chat", chatID, "error", err)
		}

		if !m.Alive() || m.activeID != chatID {
			return
		}
		err = m.socket.Connect(m.ctx, chatsocket.Params{UserID: user.ID, ChatID: chatID, Token: token})
		if err != nil {
			m.fail("connect", err)
		}
	})
}

func (m *messenger) onSocketError(err error) {
	m.setProps(props.Values{errorKey: "Connection problem, messages may be delayed"})
}

func (m *messenger) onSocketMessage(raw []byte) {
	if !m.Alive() {
		return
	}
	decoded, err := chatsocket.Decode(raw)
	if err != nil {
		m.log.Warnw("bad frame", "error", err)
		return
	}

	var userID int
	if u := m.deps.Session.User(); u != nil {
		userID = u.ID
	}
	loc := m.deps.location()
	var incoming []message
	for _, msg := range decoded {
		if !msg.Visible() {
			continue
		}
		item := message{
			ID:   int(msg.ID),
			Time: formatTime(msg.Time, loc),
			Own:  int(msg.UserID) == userID,
		}
		switch {
		case msg.Type == chatsocket.TypeFile && msg.File != nil:
			m.files[int(msg.File.ID)] = msg.File.Path
			item.Image = api.ResourceURL(m.deps.API.BaseURL(), msg.File.Path, nil)
		case msg.Type == chatsocket.TypeFile:
			item.Image = api.ResourceURL(m.deps.API.BaseURL(), msg.Content, m.files)
		default:
			item.Text = msg.Content
		}
		incoming = append(incoming, item)
	}
	if len(incoming) == 0 {
		return
	}

	current, _ := m.Component().Props()[messagesKey].([]message)
	var next []message
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		// History pages arrive newest first and precede what is shown.
		next = make([]message, 0, len(incoming)+len(current))
		for i := len(incoming) - 1; i >= 0; i-- {
			next = append(next, incoming[i])
		}
		next = append(next, current...)
	} else {
		next = append([]message(nil), current...)
		for _, item := range incoming {
			next = confirmOrAppend(next, item)
		}
	}
	m.setProps(props.Values{messagesKey: next})
}

// confirmOrAppend replaces the first pending own message with the same text
// by its delivered copy, or appends item.
func confirmOrAppend(list []message, item message) []message {
	if item.Own {
		for i, existing := range list {
			if existing.Pending && existing.Text == item.Text {
				list[i] = item
				return list
			}
		}
	}
	return append(list, item)
}

func (m *messenger) onSubmit(e dom.Event) {
	e.PreventDefault()
	if m.activeID == 0 {
		return
	}
	text := m.input.Value()
	if m.input.Validate() != "" {
		return
	}
	if err := m.socket.SendMessage(text); err != nil {
		m.log.Warnw("send failed", "chat", m.activeID, "error", err)
		_ = m.input.SetError("Not connected, try again in a moment")
		return
	}

	current, _ := m.Component().Props()[messagesKey].([]message)
	next := append(append([]message(nil), current...), message{Text: text, Own: true, Pending: true})
	m.setProps(props.Values{messagesKey: next})
	_ = m.input.SetValue("")
}

func (m *messenger) onClick(e dom.Event) {
	t := e.Target()
	if t == nil {
		return
	}
	if item := t.Closest("[data-chat-id]"); item != nil {
		raw, _ := item.GetAttribute("data-chat-id")
		if id, err := strconv.Atoi(raw); err == nil && id != m.activeID {
			e.PreventDefault()
			if err := m.deps.Nav.Go(fmt.Sprintf("%s/%d", messengerPath, id)); err != nil {
				m.log.Errorw("navigation failed", "error", err)
			}
		}
		return
	}

	action := t.Closest("[data-action]")
	if action == nil {
		return
	}
	name, _ := action.GetAttribute("data-action")
	switch name {
	case "create-chat":
		e.PreventDefault()
		m.createChat()
	case "delete-chat":
		e.PreventDefault()
		m.deleteChat()
	case "add-user":
		e.PreventDefault()
		m.changeMembers(true)
	case "remove-user":
		e.PreventDefault()
		m.changeMembers(false)
	}
}

func (m *messenger) createChat() {
	title, ok := m.deps.Dialogs.Prompt("Chat title", "")
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		return
	}
	m.deps.spawn(func() {
		id, err := m.deps.API.CreateChat(m.ctx, title)
		if !m.Alive() {
			return
		}
		if err != nil {
			m.fail("create chat", err)
			return
		}
		m.log.Infow("chat created", "chat", id)
		m.loadChats()
	})
}

func (m *messenger) deleteChat() {
	id := m.activeID
	if id == 0 || !m.deps.Dialogs.Confirm("Delete this chat?") {
		return
	}
	m.deps.spawn(func() {
		err := m.deps.API.DeleteChat(m.ctx, id)
		if !m.Alive() {
			return
		}
		if err != nil {
			m.fail("delete chat", err)
			return
		}
		if err := m.deps.Nav.Go(messengerPath); err != nil {
			m.log.Errorw("navigation failed", "error", err)
		}
	})
}

func (m *messenger) changeMembers(add bool) {
	chatID := m.activeID
	if chatID == 0 {
		return
	}
	answer, ok := m.deps.Dialogs.Prompt("User ID", "")
	if !ok {
		return
	}
	userID, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || userID <= 0 {
		m.deps.Dialogs.Alert("User ID must be a positive number")
		return
	}
	m.deps.spawn(func() {
		var err error
		if add {
			err = m.deps.API.AddUsers(m.ctx, chatID, userID)
		} else {
			err = m.deps.API.RemoveUsers(m.ctx, chatID, userID)
		}
		if !m.Alive() {
			return
		}
		if err != nil {
			if !m.deps.unauthorized(err) {
				m.deps.Dialogs.Alert(errorMessage(err))
			}
			return
		}
		m.log.Infow("members changed", "chat", chatID, "user", userID, "added", add)
	})
}
