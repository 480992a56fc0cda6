package pages

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/nojs-messenger/dialogs"
	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/internal/api"
	"github.com/vcrobe/nojs-messenger/internal/chatsocket"
	"github.com/vcrobe/nojs-messenger/internal/config"
	"github.com/vcrobe/nojs-messenger/internal/transport"
	"github.com/vcrobe/nojs-messenger/router"
)

const (
	apiBase    = "https://api.test/api/v2"
	socketBase = "wss://socket.test/ws/chats"
)

var testUser = api.User{
	ID:          7,
	FirstName:   "Ivan",
	SecondName:  "Ivanov",
	DisplayName: "Vanya",
	Login:       "ivan",
	Email:       "ivan@example.com",
	Phone:       "+79099673030",
}

// backend serves the REST API in-process through a chi router.
type backend struct {
	mux *chi.Mux

	mu     sync.Mutex
	calls  []string
	bodies map[string]string
	fail   map[string]failure
	user   *api.User
	chats  []api.Chat
	nextID int
}

type failure struct {
	status int
	reason string
}

func newBackend() *backend {
	b := &backend{
		bodies: map[string]string{},
		fail:   map[string]failure{},
		nextID: 100,
	}
	r := chi.NewRouter()
	r.Use(b.record)
	r.Post("/auth/signin", func(w http.ResponseWriter, _ *http.Request) {
		b.signIn()
		reply(w, http.StatusOK, "OK")
	})
	r.Post("/auth/signup", func(w http.ResponseWriter, _ *http.Request) {
		b.signIn()
		reply(w, http.StatusOK, `{"id":7}`)
	})
	r.Get("/auth/user", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		u := b.user
		b.mu.Unlock()
		if u == nil {
			reply(w, http.StatusUnauthorized, `{"reason":"Cookie is not valid"}`)
			return
		}
		replyJSON(w, u)
	})
	r.Post("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		b.user = nil
		b.mu.Unlock()
		reply(w, http.StatusOK, "OK")
	})
	r.Put("/user/profile", func(w http.ResponseWriter, req *http.Request) {
		var in api.ProfileRequest
		_ = json.Unmarshal([]byte(b.body(req.Method+" "+req.URL.Path)), &in)
		u := testUser
		u.FirstName, u.SecondName, u.DisplayName = in.FirstName, in.SecondName, in.DisplayName
		u.Login, u.Email, u.Phone = in.Login, in.Email, in.Phone
		b.mu.Lock()
		b.user = &u
		b.mu.Unlock()
		replyJSON(w, u)
	})
	r.Put("/user/password", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, "OK")
	})
	r.Get("/chats", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		chats := append([]api.Chat{}, b.chats...)
		b.mu.Unlock()
		replyJSON(w, chats)
	})
	r.Post("/chats", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Title string `json:"title"`
		}
		_ = json.Unmarshal([]byte(b.body(req.Method+" "+req.URL.Path)), &in)
		b.mu.Lock()
		b.nextID++
		id := b.nextID
		b.chats = append(b.chats, api.Chat{ID: id, Title: in.Title})
		b.mu.Unlock()
		reply(w, http.StatusOK, `{"id":`+strconv.Itoa(id)+`}`)
	})
	r.Delete("/chats", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, `{"userId":7,"result":{}}`)
	})
	r.Post("/chats/token/{id}", func(w http.ResponseWriter, req *http.Request) {
		reply(w, http.StatusOK, `{"token":"tok-`+chi.URLParam(req, "id")+`"}`)
	})
	r.Get("/chats/{id}/files", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, `[{"id":12,"user_id":8,"path":"/files/cat.png","filename":"cat.png"}]`)
	})
	r.Put("/chats/users", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, "OK")
	})
	r.Delete("/chats/users", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, "OK")
	})
	b.mux = r
	return b
}

func (b *backend) signIn() {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := testUser
	b.user = &u
}

// record stores the call and its body, and answers forced failures.
func (b *backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		data, _ := io.ReadAll(req.Body)
		key := req.Method + " " + req.URL.Path
		b.mu.Lock()
		b.calls = append(b.calls, key)
		b.bodies[key] = string(data)
		f, failing := b.fail[key]
		b.mu.Unlock()
		if failing {
			reply(w, f.status, `{"reason":"`+f.reason+`"}`)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (b *backend) Request(_ context.Context, url string, opts transport.Options) (*transport.Response, error) {
	path := strings.TrimPrefix(url, apiBase)
	var body io.Reader = http.NoBody
	if opts.Data != nil {
		if opts.Method == http.MethodGet {
			q, err := transport.QueryString(opts.Data)
			if err != nil {
				return nil, err
			}
			path += "?" + q
		} else {
			data, err := json.Marshal(opts.Data)
			if err != nil {
				return nil, err
			}
			body = bytes.NewReader(data)
		}
	}
	rec := httptest.NewRecorder()
	b.mux.ServeHTTP(rec, httptest.NewRequest(opts.Method, path, body))
	return &transport.Response{Status: rec.Code, Body: rec.Body.String(), Header: rec.Header()}, nil
}

func (b *backend) body(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[key]
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == key {
			n++
		}
	}
	return n
}

func (b *backend) failWith(key string, status int, reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[key] = failure{status: status, reason: reason}
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func replyJSON(w http.ResponseWriter, v any) {
	data, _ := json.Marshal(v)
	reply(w, http.StatusOK, string(data))
}

type fakeConn struct {
	mu     sync.Mutex
	sent   []chatsocket.Frame
	closed bool
}

func (c *fakeConn) Send(data []byte) error {
	var f chatsocket.Frame
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

func (c *fakeConn) frames() []chatsocket.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chatsocket.Frame(nil), c.sent...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeDialer struct {
	urls   []string
	conns  []*fakeConn
	events []chatsocket.Events
}

func (d *fakeDialer) Dial(_ context.Context, url string, ev chatsocket.Events) (chatsocket.Conn, error) {
	c := &fakeConn{}
	d.urls = append(d.urls, url)
	d.conns = append(d.conns, c)
	d.events = append(d.events, ev)
	return c, nil
}

// harness wires every page to in-memory collaborators. Spawned work is queued
// and runs on flush, the way completions run after the event callback that
// started them.
type harness struct {
	t       *testing.T
	doc     *dom.MemoryDocument
	history *router.MemoryHistory
	router  *router.Router
	backend *backend
	dialer  *fakeDialer
	dialogs *dialogs.Scripted
	session *Session
	queue   []func()
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.API.BaseURL = apiBase
	cfg.Socket.BaseURL = socketBase
	cfg.Socket.PingInterval = time.Hour

	doc := dom.NewMemoryDocument()
	doc.Body().SetInnerHTML(`<div id="app"></div>`)

	h := &harness{
		t:       t,
		doc:     doc,
		history: router.NewMemoryHistory("https://app.test", "/"),
		backend: newBackend(),
		dialer:  &fakeDialer{},
		dialogs: &dialogs.Scripted{},
		session: NewSession(),
	}
	h.router = router.New(doc, h.history, router.Options{
		RootQuery: cfg.Router.Root,
		Guard: &router.Guard{
			Protected: cfg.Router.Protected,
			GuestOnly: cfg.Router.GuestOnly,
			LoginPath: cfg.Router.LoginPath,
			HomePath:  cfg.Router.HomePath,
		},
	})

	deps := &Deps{
		API:      api.New(apiBase, h.backend, nil),
		Nav:      h.router,
		Config:   cfg,
		Dialogs:  h.dialogs,
		Dialer:   h.dialer,
		Session:  h.session,
		Spawn:    func(fn func()) { h.queue = append(h.queue, fn) },
		Location: time.UTC,
	}
	h.router.
		Use("/", Login(deps)).
		Use("/sign-up", SignUp(deps)).
		Use("/messenger", Messenger(deps)).
		Use("/messenger/{chatId}", Messenger(deps)).
		Use("/settings", Profile(deps)).
		Use("/settings/edit", ProfileEdit(deps)).
		Use("/settings/password", Password(deps)).
		Use("/404", NotFound()).
		Use("/500", ServerError()).
		Use(router.Wildcard, NotFound())

	t.Cleanup(func() {
		if r := h.router.Current(); r != nil {
			r.Leave()
		}
		h.router.Stop()
	})
	return h
}

// signedIn makes the backend and the router agree that ivan is signed in.
func (h *harness) signedIn(cached bool) *harness {
	h.backend.signIn()
	h.router.SetAuth(true)
	if cached {
		u := testUser
		h.session.SetUser(&u)
	}
	return h
}

func (h *harness) start(path string) {
	h.t.Helper()
	h.history.ReplaceState(path)
	require.NoError(h.t, h.router.Start())
	h.flush()
}

func (h *harness) flush() {
	for len(h.queue) > 0 {
		fn := h.queue[0]
		h.queue = h.queue[1:]
		fn()
	}
}

func (h *harness) find(selector string) dom.Element {
	h.t.Helper()
	el := h.doc.QuerySelector(selector)
	require.NotNil(h.t, el, "no element matches %s", selector)
	return el
}

func (h *harness) all(selector string) []dom.Element {
	return h.doc.Body().QuerySelectorAll(selector)
}

func (h *harness) fill(values map[string]string) {
	h.t.Helper()
	for id, v := range values {
		h.find("#" + id).SetValue(v)
	}
}

func (h *harness) submit(selector string) {
	h.t.Helper()
	h.find(selector).DispatchEvent(dom.NewEvent("submit"))
	h.flush()
}

func (h *harness) click(selector string) {
	h.t.Helper()
	h.find(selector).Click()
	h.flush()
}

func (h *harness) path() string { return h.history.Pathname() }
