//go:build !(js && wasm)
// +build !js !wasm

package chatsocket

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

// NativeDialer dials with gorilla/websocket. It backs command line tools and
// tests; the browser build uses the page's WebSocket instead.
type NativeDialer struct {
	Dialer *websocket.Dialer
}

// DefaultDialer returns the dialer for the current platform.
func DefaultDialer() Dialer { return NativeDialer{} }

func (d NativeDialer) Dial(ctx context.Context, url string, ev Events) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	c := &nativeConn{ws: ws}
	go c.readLoop(ev)
	return c, nil
}

type nativeConn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
	closed  sync.Once
}

func (c *nativeConn) readLoop(ev Events) {
	if ev.OnOpen != nil {
		ev.OnOpen()
	}
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if !errors.As(err, &ce) && !errors.Is(err, websocket.ErrCloseSent) && ev.OnError != nil {
				ev.OnError(err)
			}
			if ev.OnClose != nil {
				ev.OnClose()
			}
			return
		}
		if ev.OnMessage != nil {
			ev.OnMessage(data)
		}
	}
}

func (c *nativeConn) Send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *nativeConn) Close() error {
	var err error
	c.closed.Do(func() {
		c.writeMu.Lock()
		_ = c.ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}
