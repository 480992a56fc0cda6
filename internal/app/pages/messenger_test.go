package pages

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/nojs-messenger/internal/api"
	"github.com/vcrobe/nojs-messenger/internal/app/components"
	"github.com/vcrobe/nojs-messenger/internal/chatsocket"
)

func (h *harness) withChats() *harness {
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	h.backend.chats = []api.Chat{
		{
			ID:          1,
			Title:       "General",
			UnreadCount: 3,
			LastMessage: &api.LastMessage{Content: "hi", Time: "2024-01-02T10:05:00+00:00"},
		},
		{ID: 2, Title: "Random"},
	}
	return h
}

// open starts the messenger at path and opens the dialed socket.
func (h *harness) open(path string) *fakeConn {
	h.t.Helper()
	h.start(path)
	require.NotEmpty(h.t, h.dialer.events)
	h.dialer.events[len(h.dialer.events)-1].OnOpen()
	return h.dialer.conns[len(h.dialer.conns)-1]
}

func (h *harness) receive(raw string) {
	h.dialer.events[len(h.dialer.events)-1].OnMessage([]byte(raw))
}

func TestMessenger_OpensChatFromRoute(t *testing.T) {
	// Arrange
	h := newHarness(t).signedIn(true).withChats()

	// Act
	h.start("/messenger/1")

	// Assert
	require.Equal(t, []string{socketBase + "/7/1/tok-1"}, h.dialer.urls)
	assert.Len(t, h.all(".chat-item"), 2)
	active := h.find(".chat-item--active")
	id, _ := active.GetAttribute("data-chat-id")
	assert.Equal(t, "1", id)
	assert.Equal(t, "General", h.find(".chat-content__title").TextContent())
	assert.Equal(t, "10:05", h.find(".chat-item__time").TextContent())
	assert.Equal(t, "3", h.find(".chat-item__unread").TextContent())
	assert.Equal(t, 1, h.backend.count("POST /chats/token/1"))
}

func TestMessenger_WithoutChatShowsPlaceholder(t *testing.T) {
	h := newHarness(t).signedIn(true)

	h.start("/messenger")

	assert.Empty(t, h.dialer.urls)
	assert.Equal(t, "No chats yet", h.find(".chat-list__empty").TextContent())
	assert.NotNil(t, h.doc.QuerySelector(".chat-content__placeholder"))
}

func TestMessenger_HistoryAndSending(t *testing.T) {
	// Arrange
	h := newHarness(t).signedIn(true).withChats()
	conn := h.open("/messenger/1")
	require.Equal(t, []chatsocket.Frame{{Type: chatsocket.TypeGetOld, Content: "0"}}, conn.frames())

	// Act
	h.receive(`[` +
		`{"id":2,"user_id":8,"chat_id":1,"type":"message","content":"second","time":"2024-01-02T10:06:00+00:00"},` +
		`{"id":1,"user_id":"7","chat_id":1,"type":"message","content":"first","time":"2024-01-02T10:05:00+00:00"},` +
		`{"id":0,"user_id":8,"chat_id":1,"type":"user connected","content":"8"}]`)

	// Assert
	texts := h.all(".message__text")
	require.Len(t, texts, 2)
	assert.Equal(t, "first", texts[0].TextContent())
	assert.Equal(t, "second", texts[1].TextContent())
	assert.Len(t, h.all(".message--own"), 1)
	assert.Equal(t, "10:05", h.find(".message__time").TextContent())

	// Act
	h.fill(map[string]string{"message": "hello"})
	h.submit("form.chat-content__form")

	// Assert
	frames := conn.frames()
	assert.Equal(t, chatsocket.Frame{Type: chatsocket.TypeMessage, Content: "hello"}, frames[len(frames)-1])
	require.Len(t, h.all(".message--pending"), 1)
	assert.Equal(t, "", h.find("#message").Value())

	// Act
	h.receive(`{"id":3,"user_id":7,"chat_id":1,"type":"message","content":"hello","time":"2024-01-02T10:07:00+00:00"}`)

	// Assert
	assert.Empty(t, h.all(".message--pending"))
	assert.Len(t, h.all(".message"), 3)
}

func TestMessenger_FileMessagesResolveKnownFiles(t *testing.T) {
	h := newHarness(t).signedIn(true).withChats()
	h.open("/messenger/1")

	h.receive(`{"id":5,"user_id":8,"chat_id":1,"type":"file","content":"12","time":"2024-01-02T10:08:00+00:00"}`)

	src, _ := h.find(".message__image").GetAttribute("src")
	assert.Equal(t, apiBase+"/resources/files/cat.png", src)
}

func TestMessenger_SendBeforeOpenAsksToRetry(t *testing.T) {
	h := newHarness(t).signedIn(true).withChats()
	h.start("/messenger/1")

	h.fill(map[string]string{"message": "too early"})
	h.submit("form.chat-content__form")

	assert.Empty(t, h.all(".message"))
	assert.Equal(t, "Not connected, try again in a moment", h.find(".input-group__error").TextContent())
}

func TestMessenger_EmptyMessageIsNotSent(t *testing.T) {
	h := newHarness(t).signedIn(true).withChats()
	conn := h.open("/messenger/1")

	h.submit("form.chat-content__form")

	assert.Len(t, conn.frames(), 1)
	assert.Equal(t, components.RequiredMessage, h.find(".input-group__error").TextContent())
}

func TestMessenger_SwitchesChats(t *testing.T) {
	// Arrange
	h := newHarness(t).signedIn(true).withChats()
	first := h.open("/messenger/1")
	h.receive(`{"id":1,"user_id":8,"chat_id":1,"type":"message","content":"old chat","time":"2024-01-02T10:05:00+00:00"}`)

	// Act
	h.click(`[data-chat-id="2"]`)

	// Assert
	assert.Equal(t, "/messenger/2", h.path())
	assert.True(t, first.isClosed())
	require.Len(t, h.dialer.urls, 2)
	assert.Equal(t, socketBase+"/7/2/tok-2", h.dialer.urls[1])
	assert.Equal(t, "Random", h.find(".chat-content__title").TextContent())
	assert.Empty(t, h.all(".message"))

	// A late frame from the closed connection is dropped.
	h.dialer.events[0].OnMessage([]byte(`{"id":2,"user_id":8,"type":"message","content":"stale","time":""}`))
	assert.Empty(t, h.all(".message"))
}

func TestMessenger_CreatesChat(t *testing.T) {
	h := newHarness(t).signedIn(true).withChats()
	h.dialogs.Answers = []string{"  Team  "}
	h.start("/messenger")

	h.click(`[data-action="create-chat"]`)

	assert.Equal(t, []string{"Chat title"}, h.dialogs.Prompts)
	assert.JSONEq(t, `{"title":"Team"}`, h.backend.body("POST /chats"))
	titles := h.all(".chat-item__title")
	require.Len(t, titles, 3)
	assert.Equal(t, "Team", titles[2].TextContent())
}

func TestMessenger_CancelledPromptCreatesNothing(t *testing.T) {
	h := newHarness(t).signedIn(true)
	h.start("/messenger")

	h.click(`[data-action="create-chat"]`)

	assert.Zero(t, h.backend.count("POST /chats"))
}

func TestMessenger_ManagesMembers(t *testing.T) {
	// Arrange
	h := newHarness(t).signedIn(true).withChats()
	h.dialogs.Answers = []string{"42", "abc"}
	h.start("/messenger/1")

	// Act
	h.click(`[data-action="add-user"]`)
	h.click(`[data-action="remove-user"]`)

	// Assert
	assert.JSONEq(t, `{"users":[42],"chatId":1}`, h.backend.body("PUT /chats/users"))
	assert.Zero(t, h.backend.count("DELETE /chats/users"))
	assert.Equal(t, []string{"User ID must be a positive number"}, h.dialogs.Alerts)
}

func TestMessenger_MemberErrorsAreAlerted(t *testing.T) {
	h := newHarness(t).signedIn(true).withChats()
	h.backend.failWith("DELETE /chats/users", http.StatusForbidden, "Not enough rights")
	h.dialogs.Answers = []string{"42"}
	h.start("/messenger/1")

	h.click(`[data-action="remove-user"]`)

	assert.Equal(t, []string{"Not enough rights"}, h.dialogs.Alerts)
}

func TestMessenger_DeletesChat(t *testing.T) {
	// Arrange
	h := newHarness(t).signedIn(true).withChats()
	h.dialogs.Confirms = []bool{false, true}
	conn := h.open("/messenger/1")

	// Act
	h.click(`[data-action="delete-chat"]`)

	// Assert
	assert.Zero(t, h.backend.count("DELETE /chats"))
	assert.Equal(t, "/messenger/1", h.path())

	// Act
	h.click(`[data-action="delete-chat"]`)

	// Assert
	assert.JSONEq(t, `{"chatId":1}`, h.backend.body("DELETE /chats"))
	assert.Equal(t, "/messenger", h.path())
	assert.True(t, conn.isClosed())
}

func TestMessenger_ExpiredSessionRedirects(t *testing.T) {
	h := newHarness(t).signedIn(true)
	h.backend.failWith("GET /chats", http.StatusUnauthorized, "Cookie is not valid")

	h.start("/messenger")

	assert.Equal(t, "/", h.path())
	assert.False(t, h.router.Authenticated())
	assert.Nil(t, h.session.User())
	assert.NotNil(t, h.doc.QuerySelector("#login-form"))
}

func TestMessenger_ServerErrorIsShown(t *testing.T) {
	h := newHarness(t).signedIn(true)
	h.backend.failWith("GET /chats", http.StatusInternalServerError, "Internal error")

	h.start("/messenger")

	assert.Equal(t, "Internal error", h.find(".form__error").TextContent())
}

func TestMessenger_LeavingBeforeConnectDoesNotDial(t *testing.T) {
	// Arrange
	h := newHarness(t).signedIn(true).withChats()
	h.history.ReplaceState("/messenger/1")
	require.NoError(t, h.router.Start())

	// Act
	require.NoError(t, h.router.Go("/settings"))
	h.flush()

	// Assert
	assert.Empty(t, h.dialer.urls)
	assert.NotNil(t, h.doc.QuerySelector(".profile"))
}

func TestMessenger_LeavingClosesSocket(t *testing.T) {
	h := newHarness(t).signedIn(true).withChats()
	conn := h.open("/messenger/1")

	h.click(`a[href="/settings"]`)

	assert.Equal(t, "/settings", h.path())
	assert.True(t, conn.isClosed())
}

func TestMessenger_SocketErrorIsShown(t *testing.T) {
	h := newHarness(t).signedIn(true).withChats()
	h.open("/messenger/1")

	h.dialer.events[0].OnError(assert.AnError)

	assert.Equal(t, "Connection problem, messages may be delayed", h.find(".form__error").TextContent())
}

func TestConfirmOrAppend(t *testing.T) {
	list := []message{
		{Text: "a", Own: true, Pending: true},
		{Text: "b", Own: true, Pending: true},
	}

	got := confirmOrAppend(list, message{ID: 9, Text: "b", Own: true})
	got = confirmOrAppend(got, message{ID: 10, Text: "a"})

	require.Len(t, got, 3)
	assert.Equal(t, 9, got[1].ID)
	assert.False(t, got[1].Pending)
	assert.True(t, got[0].Pending)
	assert.Equal(t, 10, got[2].ID)
}
