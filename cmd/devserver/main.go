//go:build !(js && wasm)
// +build !js !wasm

// Command devserver serves the messenger client during development.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vcrobe/nojs-messenger/internal/devserver"
	"github.com/vcrobe/nojs-messenger/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "devserver:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := devserver.LoadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, "console", os.Stderr)
	defer log.Sync()

	srv, err := devserver.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
