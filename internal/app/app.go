package app

import (
	"context"
	"fmt"
	httpapp "github.com/14kear/online_voting/vote-client/internal/app/http"
	"github.com/14kear/online_voting/vote-client/internal/app/ws"
	"github.com/14kear/online_voting/vote-client/internal/clients/authapi"
	"github.com/14kear/online_voting/vote-client/internal/clients/voteapi"
	"github.com/14kear/online_voting/vote-client/internal/config"
	"github.com/14kear/online_voting/vote-client/internal/handlers"
	"github.com/14kear/online_voting/vote-client/internal/identity/demo"
	"github.com/14kear/online_voting/vote-client/internal/identity/oidc"
	"github.com/14kear/online_voting/vote-client/internal/middleware"
	"github.com/14kear/online_voting/vote-client/internal/services/session"
	"github.com/14kear/online_voting/vote-client/internal/services/tokens"
	"github.com/14kear/online_voting/vote-client/internal/storage/bolt"
	"github.com/14kear/online_voting/vote-client/internal/storage/memory"
	"github.com/14kear/online_voting/vote-client/internal/storage/redis"
	"log/slog"
	"net/http"
)

type kvStore interface {
	tokens.KV
	Close() error
}

type identityProvider interface {
	session.IdentityProvider
	handlers.CallbackReceiver
}

type App struct {
	HTTPServer *httpapp.App
	Session    *session.Orchestrator
	Hub        *ws.Hub

	kv     kvStore
	cancel context.CancelFunc
}

// NewApp wires the client from cfg. Storage and identity failures are fatal.
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	kv, err := openStorage(cfg.Storage)
	if err != nil {
		panic(err)
	}

	store := tokens.New(log, kv)

	idp, err := newIdentityProvider(ctx, log, cfg, store)
	if err != nil {
		panic(err)
	}

	exchanger, polls := newBackend(log, cfg)

	runCtx, cancel := context.WithCancel(ctx)

	hub := ws.NewHub(log)
	go hub.Run(runCtx)

	orchestrator := session.New(log, cfg.Session, idp, exchanger, polls, store, hub)

	sessionHandler := handlers.NewSessionHandler(runCtx, log, orchestrator, hub, cfg.HTTP.AllowedOrigins)
	pollsHandler := handlers.NewPollsHandler(orchestrator)
	oauthHandler := handlers.NewOAuthHandler(log, idp, orchestrator, cfg.Identity.ReturnURL)
	authMiddleware := middleware.NewAuthMiddleware(orchestrator)

	httpApp := httpapp.NewApp(
		log,
		cfg.HTTP.Port,
		cfg.HTTP.AllowedOrigins,
		sessionHandler,
		pollsHandler,
		oauthHandler,
		authMiddleware.Middleware(),
	)

	return &App{
		HTTPServer: httpApp,
		Session:    orchestrator,
		Hub:        hub,
		kv:         kv,
		cancel:     cancel,
	}
}

func (a *App) Stop(ctx context.Context) error {
	err := a.HTTPServer.Stop(ctx)
	a.cancel()
	a.Session.Close()
	if closeErr := a.kv.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func openStorage(cfg config.StorageConfig) (kvStore, error) {
	switch cfg.Driver {
	case config.StorageBolt:
		return bolt.New(cfg.Path)
	case config.StorageRedis:
		return redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
	case config.StorageMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("app.openStorage: unknown storage driver %q", cfg.Driver)
	}
}

// newIdentityProvider falls back to the demo provider when no OAuth client is configured.
func newIdentityProvider(ctx context.Context, log *slog.Logger, cfg *config.Config, store *tokens.Store) (identityProvider, error) {
	if cfg.Identity.Provider == config.ProviderOIDC {
		if cfg.Identity.ClientID != "" {
			return oidc.New(ctx, log, cfg.Identity, store, nil)
		}
		log.Warn("oidc client is not configured, using demo sign-in")
	}
	return demo.New(log, store, cfg.API.LocalSecret, cfg.Identity.ReturnURL), nil
}

func newBackend(log *slog.Logger, cfg *config.Config) (session.TokenExchanger, session.PollGateway) {
	if cfg.Backend == config.BackendMock {
		log.Info("using in-process mock backend")
		return authapi.NewLocal(log, cfg.API.LocalSecret, cfg.API.BearerTTL),
			voteapi.NewMemory(log, cfg.API.LocalSecret)
	}

	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	if cfg.API.Token == "" || cfg.API.Key == "" {
		log.Warn("vote api credentials are missing, live data will be unavailable")
	}
	return authapi.New(log, cfg.API, httpClient), voteapi.New(log, cfg.API, httpClient)
}
