//go:build js && wasm
// +build js,wasm

// Command messenger is the browser client, compiled to WebAssembly.
package main

import (
	"context"

	"github.com/vcrobe/nojs-messenger/console"
	"github.com/vcrobe/nojs-messenger/dialogs"
	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/internal/app"
	"github.com/vcrobe/nojs-messenger/internal/chatsocket"
	"github.com/vcrobe/nojs-messenger/internal/config"
	"github.com/vcrobe/nojs-messenger/internal/transport"
	"github.com/vcrobe/nojs-messenger/logger"
	"github.com/vcrobe/nojs-messenger/router"
	"github.com/vcrobe/nojs-messenger/runtime"
)

func main() {
	cfg, err := config.Default()
	if err != nil {
		console.Error("messenger: load configuration: ", err.Error())
		return
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, console.Writer())
	defer log.Sync()
	runtime.SetLogger(log)

	r := router.Init(dom.Browser(), router.BrowserHistory(), app.RouterOptions(cfg, log))
	a := app.New(r, app.Options{
		Config:  cfg,
		HTTP:    transport.New(transport.WithLogger(log)),
		Dialer:  chatsocket.DefaultDialer(),
		Dialogs: dialogs.Browser(),
		Logger:  log,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	err = a.Start(ctx)
	cancel()
	if err != nil {
		log.Errorw("start failed", "error", err)
		return
	}

	// Callbacks registered with the browser need the program alive.
	select {}
}
