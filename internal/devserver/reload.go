package devserver

import (
	"bytes"
	"context"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"

	"github.com/vcrobe/nojs-messenger/logger"
)

// ReloadPath is where pages connect to be told about changes.
const ReloadPath = "/_live"

const reloadMessage = "reload"

// reloadScript reconnects after a restart of the dev server, then reloads.
const reloadScript = `<script>(function(){` +
	`var url=(location.protocol==="https:"?"wss://":"ws://")+location.host+"` + ReloadPath + `";` +
	`function connect(retry){var ws=new WebSocket(url);` +
	`ws.onopen=function(){if(retry){location.reload()}};` +
	`ws.onmessage=function(e){if(e.data==="` + reloadMessage + `"){location.reload()}};` +
	`ws.onclose=function(){setTimeout(function(){connect(true)},1000)}}` +
	`connect(false)})();</script>`

// injectReload adds the reload script before the closing body tag, or at the
// end of the document when there is none.
func injectReload(page []byte) []byte {
	i := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if i < 0 {
		return append(append([]byte(nil), page...), reloadScript...)
	}
	out := make([]byte, 0, len(page)+len(reloadScript))
	out = append(out, page[:i]...)
	out = append(out, reloadScript...)
	return append(out, page[i:]...)
}

var reloadUpgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 512,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Reloader keeps the live reload connections and tells them to reload.
type Reloader struct {
	log *logger.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewReloader creates a Reloader without clients.
func NewReloader(log *logger.Logger) *Reloader {
	return &Reloader{
		log:     logger.OrNop(log).Named("reload"),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and holds the connection until the page goes
// away.
func (r *Reloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := reloadUpgrader.Upgrade(w, req, nil)
	if err != nil {
		r.log.Debugw("upgrade failed", "error", err)
		return
	}

	r.mu.Lock()
	r.clients[conn] = struct{}{}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.clients, conn)
		r.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Clients returns the number of connected pages.
func (r *Reloader) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Broadcast tells every connected page to reload. Connections that cannot be
// written are dropped.
func (r *Reloader) Broadcast() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for conn := range r.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reloadMessage)); err != nil {
			r.log.Debugw("dropping client", "error", err)
			conn.Close()
			delete(r.clients, conn)
		}
	}
	r.log.Infow("reload sent", "clients", len(r.clients))
}

// Watch broadcasts a reload after files under root change. Changes closer
// together than debounce produce one reload. It blocks until ctx is done.
func (r *Reloader) Watch(ctx context.Context, root string, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addTree(w, root); err != nil {
		return err
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	schedule := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, r.Broadcast)
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Chmod == event.Op {
				continue
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(w, event.Name); err != nil {
						r.log.Warnw("watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			r.log.Debugw("change", "path", event.Name, "op", event.Op.String())
			schedule()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.log.Warnw("watcher error", "error", err)
		}
	}
}

// addTree watches dir and every directory below it.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(path)
	})
}
