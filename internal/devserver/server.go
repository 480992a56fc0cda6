// Package devserver serves the messenger during development: the static
// files of the client with a fallback to index.html for client-side routes,
// an optional reverse proxy to the REST API and a live reload channel.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vcrobe/nojs-messenger/logger"
)

const indexFile = "index.html"

// Server is a configured dev server.
type Server struct {
	cfg    Config
	log    *logger.Logger
	root   string
	reload *Reloader
	router chi.Router
}

// New checks the static root and builds the routes.
func New(cfg Config, log *logger.Logger) (*Server, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootNotFound, cfg.Root, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:  cfg,
		log:  logger.OrNop(log).Named("devserver"),
		root: root,
	}
	if cfg.LiveReload {
		s.reload = NewReloader(s.log)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	if s.cfg.Upstream != "" {
		target, _ := url.Parse(s.cfg.Upstream)
		r.Handle("/api/*", s.proxy(target))
	}
	if s.reload != nil {
		r.Handle(ReloadPath, s.reload)
	}
	r.Get("/*", s.static)
	r.Head("/*", s.static)
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Reloader returns the live reload hub, or nil when live reload is off.
func (s *Server) Reloader() *Reloader { return s.reload }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		s.log.Infow("listening", "addr", s.cfg.Addr, "root", s.root, "upstream", s.cfg.Upstream)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	if s.reload != nil {
		go func() {
			if err := s.reload.Watch(ctx, s.root, s.cfg.Debounce); err != nil {
				s.log.Errorw("live reload disabled", "error", err)
			}
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// proxy forwards /api requests to target with the Host rewritten, so cookies
// issued by the API stay on the dev server origin.
func (s *Server) proxy(target *url.URL) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ModifyResponse: func(resp *http.Response) error {
			cookies := resp.Header.Values("Set-Cookie")
			if len(cookies) == 0 {
				return nil
			}
			resp.Header.Del("Set-Cookie")
			for _, c := range cookies {
				resp.Header.Add("Set-Cookie", stripCookieDomain(c))
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			s.log.Warnw("upstream failed", "path", r.URL.Path, "error", err)
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
		},
	}
}

// stripCookieDomain drops the Domain and Secure attributes of a Set-Cookie
// value.
func stripCookieDomain(cookie string) string {
	parts := strings.Split(cookie, ";")
	out := parts[:1]
	for _, p := range parts[1:] {
		name, _, _ := strings.Cut(strings.TrimSpace(p), "=")
		switch strings.ToLower(name) {
		case "domain", "secure":
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ";")
}

// static serves files under the root. Paths without a file extension that
// match no file get index.html so the client router can resolve them.
func (s *Server) static(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + r.URL.Path)
	name := filepath.Join(s.root, filepath.FromSlash(clean))

	info, err := os.Stat(name)
	switch {
	case err == nil && info.IsDir():
		name = filepath.Join(name, indexFile)
		if _, err := os.Stat(name); err != nil {
			s.index(w, r)
			return
		}
	case err != nil:
		if path.Ext(clean) != "" {
			http.NotFound(w, r)
			return
		}
		s.index(w, r)
		return
	}

	if filepath.Base(name) == indexFile {
		s.serveIndex(w, r, name)
		return
	}
	if strings.HasSuffix(name, ".wasm") {
		w.Header().Set("Content-Type", "application/wasm")
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, name)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.serveIndex(w, r, filepath.Join(s.root, indexFile))
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request, name string) {
	page, err := os.ReadFile(name)
	if err != nil {
		s.log.Errorw("read index", "path", name, "error", err)
		http.NotFound(w, r)
		return
	}
	if s.reload != nil {
		page = injectReload(page)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(page)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
