//go:build js && wasm
// +build js,wasm

package chatsocket

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"
)

// BrowserDialer opens connections with the page's WebSocket.
type BrowserDialer struct{}

// DefaultDialer returns the dialer for the current platform.
func DefaultDialer() Dialer { return BrowserDialer{} }

func (BrowserDialer) Dial(_ context.Context, url string, ev Events) (conn Conn, err error) {
	defer func() {
		// The constructor throws SyntaxError for malformed URLs.
		if rec := recover(); rec != nil {
			conn, err = nil, fmt.Errorf("websocket %s: %v", url, rec)
		}
	}()

	ws := js.Global().Get("WebSocket").New(url)
	c := &jsConn{ws: ws}
	c.on("open", func(js.Value) {
		if ev.OnOpen != nil {
			ev.OnOpen()
		}
	})
	c.on("message", func(e js.Value) {
		if ev.OnMessage != nil {
			ev.OnMessage([]byte(e.Get("data").String()))
		}
	})
	c.on("close", func(js.Value) {
		if ev.OnClose != nil {
			ev.OnClose()
		}
	})
	c.on("error", func(js.Value) {
		if ev.OnError != nil {
			ev.OnError(errors.New("websocket error"))
		}
	})
	return c, nil
}

type jsListener struct {
	event string
	fn    js.Func
}

type jsConn struct {
	ws        js.Value
	listeners []jsListener
}

func (c *jsConn) on(event string, h func(js.Value)) {
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		var e js.Value
		if len(args) > 0 {
			e = args[0]
		}
		h(e)
		return nil
	})
	c.ws.Call("addEventListener", event, fn)
	c.listeners = append(c.listeners, jsListener{event: event, fn: fn})
}

func (c *jsConn) Send(data []byte) error {
	if c.ws.Get("readyState").Int() != 1 {
		return ErrNotOpen
	}
	c.ws.Call("send", string(data))
	return nil
}

func (c *jsConn) Close() error {
	for _, l := range c.listeners {
		c.ws.Call("removeEventListener", l.event, l.fn)
		l.fn.Release()
	}
	c.listeners = nil
	c.ws.Call("close")
	return nil
}
