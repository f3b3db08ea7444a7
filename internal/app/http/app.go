package http

import (
	"context"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/handlers"
	"github.com/14kear/online_voting/vote-client/internal/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
)

type App struct {
	log    *slog.Logger
	engine *gin.Engine
	server *http.Server
	port   int
}

// NewApp sets up the local gin server the UI talks to.
func NewApp(
	log *slog.Logger,
	port int,
	allowedOrigins []string,
	session *handlers.SessionHandler,
	polls *handlers.PollsHandler,
	oauth *handlers.OAuthHandler,
	authMiddleware gin.HandlerFunc,
) *App {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		AllowWebSockets:  true,
	}))

	// /api/session/* and /api/polls/*
	api := r.Group("/api")
	{
		routes.RegisterPublicRoutes(api.Group("/session"), session)

		private := api.Group("", authMiddleware)
		routes.RegisterPrivateRoutes(private, session, polls)
	}

	routes.RegisterCallbackRoutes(r.Group("/oauth"), oauth)

	// Healthcheck
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	return &App{
		log:    log,
		engine: r,
		server: &http.Server{
			Addr:    fmt.Sprintf("127.0.0.1:%d", port),
			Handler: r,
		},
		port: port,
	}
}

// Run blocks serving HTTP until Stop.
func (a *App) Run() error {
	a.log.Info("HTTP server is running", slog.String("addr", a.server.Addr))
	return a.server.ListenAndServe()
}

// Stop gracefully shuts the server down.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("HTTP server is stopping")
	return a.server.Shutdown(ctx)
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}
