package main

import (
	"context"
	"errors"
	"github.com/14kear/online_voting/vote-client/internal/app"
	"github.com/14kear/online_voting/vote-client/internal/config"
	"github.com/14kear/online_voting/vote-client/utils"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg := config.MustLoad()

	log := utils.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.NewApp(ctx, log, cfg)

	go func() {
		if err := application.HTTPServer.Run(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("HTTP server closed gracefully")
			} else {
				log.Error("failed to run HTTP server", sl.Err(err))
				os.Exit(1)
			}
		}
	}()

	log.Info("vote client started",
		slog.String("env", cfg.Env),
		slog.String("backend", cfg.Backend),
		slog.Int("port", cfg.HTTP.Port),
	)

	// restore the session before the UI asks for it
	if _, err := application.Session.Init(ctx); err != nil {
		log.Warn("session restore failed", sl.Err(err))
	}

	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := application.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop application", sl.Err(err))
		os.Exit(1)
	}
}
