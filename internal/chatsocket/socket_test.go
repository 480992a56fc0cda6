//go:build !wasm
// +build !wasm

package chatsocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	sent   []Frame
	closed bool
}

func (c *fakeConn) Send(data []byte) error {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, f)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) frames() []Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Frame(nil), c.sent...)
}

func (c *fakeConn) count(typ string) int {
	n := 0
	for _, f := range c.frames() {
		if f.Type == typ {
			n++
		}
	}
	return n
}

type fakeDialer struct {
	urls   []string
	conns  []*fakeConn
	events []Events
	err    error
}

func (d *fakeDialer) Dial(_ context.Context, url string, ev Events) (Conn, error) {
	if d.err != nil {
		return nil, d.err
	}
	c := &fakeConn{}
	d.urls = append(d.urls, url)
	d.conns = append(d.conns, c)
	d.events = append(d.events, ev)
	return c, nil
}

func (d *fakeDialer) last() (*fakeConn, Events) {
	return d.conns[len(d.conns)-1], d.events[len(d.events)-1]
}

func TestSocket_ConnectRequestsHistoryOnOpen(t *testing.T) {
	// Arrange
	d := &fakeDialer{}
	opened := 0
	s := New("wss://example.test/ws/chats/", d, Handlers{OnOpen: func() { opened++ }}, WithPingInterval(time.Hour))

	// Act
	require.NoError(t, s.Connect(context.Background(), Params{UserID: 7, ChatID: 42, Token: "tok"}))
	conn, ev := d.last()
	assert.False(t, s.Open())
	ev.OnOpen()

	// Assert
	assert.Equal(t, []string{"wss://example.test/ws/chats/7/42/tok"}, d.urls)
	assert.True(t, s.Open())
	assert.Equal(t, 1, opened)
	assert.Equal(t, []Frame{{Type: TypeGetOld, Content: "0"}}, conn.frames())
	s.Close()
}

func TestSocket_SendBeforeOpen(t *testing.T) {
	s := New("wss://example.test", &fakeDialer{}, Handlers{})
	require.NoError(t, s.Connect(context.Background(), Params{UserID: 1, ChatID: 1, Token: "t"}))

	assert.ErrorIs(t, s.SendMessage("hi"), ErrNotOpen)
}

func TestSocket_SendFrames(t *testing.T) {
	d := &fakeDialer{}
	s := New("wss://example.test", d, Handlers{}, WithPingInterval(time.Hour))
	require.NoError(t, s.Connect(context.Background(), Params{UserID: 1, ChatID: 2, Token: "t"}))
	conn, ev := d.last()
	ev.OnOpen()

	require.NoError(t, s.SendMessage("hello"))
	require.NoError(t, s.SendFile(55))
	require.NoError(t, s.GetOld(20))

	assert.Equal(t, []Frame{
		{Type: TypeGetOld, Content: "0"},
		{Type: TypeMessage, Content: "hello"},
		{Type: TypeFile, Content: "55"},
		{Type: TypeGetOld, Content: "20"},
	}, conn.frames())
	s.Close()
}

func TestSocket_ReconnectClosesPrevious(t *testing.T) {
	// Arrange
	d := &fakeDialer{}
	var got []string
	s := New("wss://example.test", d, Handlers{OnMessage: func(raw []byte) { got = append(got, string(raw)) }}, WithPingInterval(time.Hour))
	require.NoError(t, s.Connect(context.Background(), Params{UserID: 1, ChatID: 1, Token: "a"}))
	first, firstEv := d.last()
	firstEv.OnOpen()

	// Act
	require.NoError(t, s.Connect(context.Background(), Params{UserID: 1, ChatID: 2, Token: "b"}))
	_, secondEv := d.last()
	secondEv.OnOpen()
	firstEv.OnMessage([]byte("stale"))
	secondEv.OnMessage([]byte("fresh"))

	// Assert
	assert.True(t, first.closed)
	assert.Equal(t, []string{"fresh"}, got)
	s.Close()
}

func TestSocket_PingsUntilClosed(t *testing.T) {
	// Arrange
	d := &fakeDialer{}
	s := New("wss://example.test", d, Handlers{}, WithPingInterval(5*time.Millisecond))
	require.NoError(t, s.Connect(context.Background(), Params{UserID: 1, ChatID: 1, Token: "t"}))
	conn, ev := d.last()

	// Act
	ev.OnOpen()

	// Assert
	require.Eventually(t, func() bool { return conn.count(TypePing) >= 2 }, time.Second, 5*time.Millisecond)
	s.Close()
	after := conn.count(TypePing)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, conn.count(TypePing))
	assert.True(t, conn.closed)
}

func TestSocket_ServerCloseStopsPing(t *testing.T) {
	d := &fakeDialer{}
	closed := 0
	s := New("wss://example.test", d, Handlers{OnClose: func() { closed++ }}, WithPingInterval(time.Hour))
	require.NoError(t, s.Connect(context.Background(), Params{UserID: 1, ChatID: 1, Token: "t"}))
	_, ev := d.last()
	ev.OnOpen()

	ev.OnClose()

	assert.Equal(t, 1, closed)
	assert.False(t, s.Open())
	s.mu.Lock()
	assert.Nil(t, s.stopPing)
	s.mu.Unlock()
}

func TestSocket_ExplicitCloseSuppressesHandlers(t *testing.T) {
	d := &fakeDialer{}
	closed := 0
	s := New("wss://example.test", d, Handlers{OnClose: func() { closed++ }})
	require.NoError(t, s.Connect(context.Background(), Params{UserID: 1, ChatID: 1, Token: "t"}))
	_, ev := d.last()

	s.Close()
	ev.OnClose()

	assert.Zero(t, closed)
}

func TestSocket_DialError(t *testing.T) {
	boom := errors.New("refused")
	s := New("wss://example.test", &fakeDialer{err: boom}, Handlers{})

	err := s.Connect(context.Background(), Params{UserID: 1, ChatID: 9, Token: "t"})

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "chat 9")
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Message
	}{
		{
			name: "single message with string ids",
			raw:  `{"id":"3","user_id":"7","type":"message","content":"hi","time":"2024-01-02T10:00:00+00:00"}`,
			want: []Message{{ID: 3, UserID: 7, Type: TypeMessage, Content: "hi", Time: "2024-01-02T10:00:00+00:00"}},
		},
		{
			name: "history array",
			raw:  `[{"id":2,"chat_id":1,"user_id":7,"type":"message","content":"b"},{"id":1,"chat_id":1,"user_id":8,"type":"file","content":"12","file":{"id":12,"path":"/f.png","filename":"f.png","content_type":"image/png"}}]`,
			want: []Message{
				{ID: 2, ChatID: 1, UserID: 7, Type: TypeMessage, Content: "b"},
				{ID: 1, ChatID: 1, UserID: 8, Type: TypeFile, Content: "12", File: &File{ID: 12, Path: "/f.png", Filename: "f.png", ContentType: "image/png"}},
			},
		},
		{name: "pong", raw: `{"type":"pong"}`, want: []Message{{Type: TypePong}}},
		{name: "blank", raw: "  ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte(`{"id":"abc"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`[1,`))
	assert.Error(t, err)
}

func TestMessage_Visible(t *testing.T) {
	assert.True(t, Message{Type: TypeMessage}.Visible())
	assert.True(t, Message{Type: TypeFile}.Visible())
	assert.False(t, Message{Type: "user connected"}.Visible())
	assert.False(t, Message{Type: TypePong}.Visible())
}

func TestNativeDialer_RoundTrip(t *testing.T) {
	// Arrange
	upgrader := websocket.Upgrader{}
	var (
		mu   sync.Mutex
		path string
		got  []Frame
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		mu.Lock()
		path = r.URL.Path
		mu.Unlock()
		for {
			var f Frame
			if err := ws.ReadJSON(&f); err != nil {
				return
			}
			mu.Lock()
			got = append(got, f)
			mu.Unlock()
			if f.Type == TypeGetOld {
				_ = ws.WriteMessage(websocket.TextMessage, []byte(`[{"id":1,"user_id":2,"type":"message","content":"old"}]`))
			}
		}
	}))
	defer srv.Close()

	received := make(chan []byte, 1)
	s := New("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/chats", DefaultDialer(),
		Handlers{OnMessage: func(raw []byte) { received <- raw }}, WithPingInterval(time.Hour))

	// Act
	require.NoError(t, s.Connect(context.Background(), Params{UserID: 2, ChatID: 5, Token: "abc"}))

	// Assert
	select {
	case raw := <-received:
		msgs, err := Decode(raw)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "old", msgs[0].Content)
	case <-time.After(2 * time.Second):
		t.Fatal("no history received")
	}
	require.Eventually(t, s.Open, time.Second, 5*time.Millisecond)
	require.NoError(t, s.SendMessage("new"))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, "/ws/chats/2/5/abc", path)
	assert.Equal(t, []Frame{{Type: TypeGetOld, Content: "0"}, {Type: TypeMessage, Content: "new"}}, got)
	mu.Unlock()
	s.Close()
}
