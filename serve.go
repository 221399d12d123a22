package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"morphparse/server"
)

func runServe(args []string, stderr io.Writer) error {
	fs := newFlagSet("serve", stderr)
	var common commonFlags
	common.register(fs)
	addr := fs.String("addr", "", "listen address (default from config, :8080)")
	if err := parse(fs, args); err != nil {
		return err
	}
	cfg, err := common.config(fs)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logs := log.New(stderr, "", log.LstdFlags)
	p, err := loadPipeline(cfg, logs)
	if err != nil {
		return err
	}
	srv, err := server.New(p.tok, cfg.Server, logs)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
