// Package chatsocket keeps the streaming connection of one conversation: it
// requests history on open, sends keep-alive pings, and delivers incoming
// frames to callbacks.
package chatsocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vcrobe/nojs-messenger/logger"
)

// ErrNotOpen is returned by the send methods while no connection is open.
var ErrNotOpen = errors.New("chatsocket: socket is not open")

// DefaultPingInterval is the keep-alive period.
const DefaultPingInterval = 15 * time.Second

// Conn is one established connection.
type Conn interface {
	Send(data []byte) error
	Close() error
}

// Events receives the notifications of one connection.
type Events struct {
	OnOpen    func()
	OnMessage func(data []byte)
	OnClose   func()
	OnError   func(err error)
}

// Dialer opens connections. Implementations deliver events only after Dial
// has returned.
type Dialer interface {
	Dial(ctx context.Context, url string, ev Events) (Conn, error)
}

// Handlers are the callbacks of a Socket. Every field is optional.
type Handlers struct {
	OnOpen    func()
	OnMessage func(raw []byte)
	OnClose   func()
	OnError   func(err error)
}

// Params identify a conversation.
type Params struct {
	UserID int
	ChatID int
	Token  string
}

// Socket is the connection to one conversation at a time.
type Socket struct {
	mu       sync.Mutex
	baseURL  string
	dialer   Dialer
	handlers Handlers
	interval time.Duration
	log      *logger.Logger

	conn     Conn
	open     bool
	gen      int
	stopPing chan struct{}
}

// Option configures a Socket.
type Option func(*Socket)

// WithPingInterval overrides DefaultPingInterval.
func WithPingInterval(d time.Duration) Option {
	return func(s *Socket) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Socket) { s.log = logger.OrNop(l).Named("chatsocket") }
}

// New creates a Socket connecting below baseURL,
// e.g. wss://ya-praktikum.tech/ws/chats.
func New(baseURL string, d Dialer, h Handlers, opts ...Option) *Socket {
	s := &Socket{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		dialer:   d,
		handlers: h,
		interval: DefaultPingInterval,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the endpoint for p.
func (s *Socket) URL(p Params) string {
	return fmt.Sprintf("%s/%d/%d/%s", s.baseURL, p.UserID, p.ChatID, p.Token)
}

// Connect closes any previous connection and dials the conversation in p.
// Once open, the socket asks for history from offset 0 and starts pinging.
func (s *Socket) Connect(ctx context.Context, p Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()
	s.gen++
	gen := s.gen

	conn, err := s.dialer.Dial(ctx, s.URL(p), Events{
		OnOpen:    func() { s.onOpen(gen) },
		OnMessage: func(data []byte) { s.onMessage(gen, data) },
		OnClose:   func() { s.onClose(gen) },
		OnError:   func(err error) { s.onError(gen, err) },
	})
	if err != nil {
		return fmt.Errorf("chatsocket: connect chat %d: %w", p.ChatID, err)
	}
	s.conn = conn
	s.log.Debugw("connecting", "chat", p.ChatID)
	return nil
}

func (s *Socket) onOpen(gen int) {
	s.mu.Lock()
	if gen != s.gen || s.conn == nil {
		s.mu.Unlock()
		return
	}
	s.open = true
	if err := s.sendLocked(Frame{Type: TypeGetOld, Content: "0"}); err != nil {
		s.log.Warnw("history request failed", "error", err)
	}
	s.startPingLocked(gen)
	s.mu.Unlock()

	if s.handlers.OnOpen != nil {
		s.handlers.OnOpen()
	}
}

func (s *Socket) onMessage(gen int, data []byte) {
	if !s.current(gen) {
		return
	}
	if s.handlers.OnMessage != nil {
		s.handlers.OnMessage(data)
	}
}

func (s *Socket) onClose(gen int) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.open = false
	s.stopPingLocked()
	s.mu.Unlock()

	if s.handlers.OnClose != nil {
		s.handlers.OnClose()
	}
}

func (s *Socket) onError(gen int, err error) {
	if !s.current(gen) {
		return
	}
	s.log.Warnw("socket error", "error", err)
	if s.handlers.OnError != nil {
		s.handlers.OnError(err)
	}
}

func (s *Socket) current(gen int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// SendMessage sends a text message.
func (s *Socket) SendMessage(content string) error {
	return s.send(Frame{Type: TypeMessage, Content: content})
}

// SendFile shares an uploaded resource.
func (s *Socket) SendFile(fileID int) error {
	return s.send(Frame{Type: TypeFile, Content: strconv.Itoa(fileID)})
}

// GetOld requests the history page starting at offset.
func (s *Socket) GetOld(offset int) error {
	return s.send(Frame{Type: TypeGetOld, Content: strconv.Itoa(offset)})
}

// Open reports whether a connection is open.
func (s *Socket) Open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Socket) send(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendLocked(f)
}

func (s *Socket) sendLocked(f Frame) error {
	if !s.open || s.conn == nil {
		return ErrNotOpen
	}
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.conn.Send(data)
}

func (s *Socket) startPingLocked(gen int) {
	s.stopPingLocked()
	stop := make(chan struct{})
	s.stopPing = stop
	interval := s.interval

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				var err error
				if gen == s.gen {
					err = s.sendLocked(Frame{Type: TypePing})
				}
				s.mu.Unlock()
				if err != nil {
					s.log.Debugw("ping failed", "error", err)
				}
			}
		}
	}()
}

func (s *Socket) stopPingLocked() {
	if s.stopPing != nil {
		close(s.stopPing)
		s.stopPing = nil
	}
}

// Close stops pinging and closes the connection. Events of the closed
// connection are no longer delivered.
func (s *Socket) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	s.gen++
}

func (s *Socket) closeLocked() {
	s.stopPingLocked()
	s.open = false
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			s.log.Debugw("close failed", "error", err)
		}
		s.conn = nil
	}
}
