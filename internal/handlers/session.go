package handlers

import (
	"context"
	"errors"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/identity"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"log/slog"
	"net/http"
)

// Session is the orchestrator contract exposed over HTTP.
type Session interface {
	Snapshot() entity.State
	Init(ctx context.Context) (entity.State, error)
	SignIn(ctx context.Context, mode identity.Mode) (entity.State, error)
	SignOut(ctx context.Context) (entity.State, error)
	Retry(ctx context.Context) (entity.State, error)
	RetryExchange(ctx context.Context) (entity.State, error)
	Navigate(screen entity.Screen, pollToken string) (entity.State, error)
	ToggleDarkMode(ctx context.Context) (entity.State, error)
	ClearError() entity.State

	Refresh(ctx context.Context) (entity.State, error)
	SubmitVote(ctx context.Context, pollToken string, selection int) (entity.State, error)
	FetchResults(ctx context.Context, pollToken string) (entity.State, error)
	CreatePoll(ctx context.Context, name string, labels []string) (entity.State, error)
	UpdatePoll(ctx context.Context, poll entity.Poll) (entity.State, error)
	DeletePoll(ctx context.Context, pollToken string) (entity.State, error)
}

// Streamer takes ownership of an upgraded state stream connection.
type Streamer interface {
	Attach(ctx context.Context, conn *websocket.Conn)
}

type SessionHandler struct {
	log      *slog.Logger
	session  Session
	streamer Streamer
	upgrader websocket.Upgrader
	// ctx outlives requests; stream connections are bound to it.
	ctx context.Context
}

type SignInRequest struct {
	Mode string `json:"mode" binding:"required,oneof=popup redirect"`
}

type NavigateRequest struct {
	Screen    string `json:"screen" binding:"required"`
	PollToken string `json:"pollToken"`
}

func NewSessionHandler(
	ctx context.Context,
	log *slog.Logger,
	session Session,
	streamer Streamer,
	allowedOrigins []string,
) *SessionHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &SessionHandler{
		log:      log,
		session:  session,
		streamer: streamer,
		ctx:      ctx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

func (h *SessionHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.session.Snapshot()})
}

func (h *SessionHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied to the client
		h.log.Warn("websocket upgrade failed", sl.Err(err))
		return
	}
	h.streamer.Attach(h.ctx, conn)
}

func (h *SessionHandler) Init(c *gin.Context) {
	state, err := h.session.Init(c.Request.Context())
	respond(c, state, err)
}

func (h *SessionHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	state, err := h.session.SignIn(c.Request.Context(), identity.Mode(req.Mode))
	respond(c, state, err)
}

func (h *SessionHandler) SignOut(c *gin.Context) {
	state, err := h.session.SignOut(c.Request.Context())
	if err != nil {
		// sign-out still completed, hand back the new state
		h.log.Warn("sign-out finished with errors", sl.Err(err))
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *SessionHandler) Retry(c *gin.Context) {
	state, err := h.session.Retry(c.Request.Context())
	respond(c, state, err)
}

func (h *SessionHandler) RetryExchange(c *gin.Context) {
	state, err := h.session.RetryExchange(c.Request.Context())
	respond(c, state, err)
}

func (h *SessionHandler) Navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	state, err := h.session.Navigate(entity.Screen(req.Screen), req.PollToken)
	respond(c, state, err)
}

func (h *SessionHandler) ToggleDarkMode(c *gin.Context) {
	state, err := h.session.ToggleDarkMode(c.Request.Context())
	respond(c, state, err)
}

func (h *SessionHandler) ClearError(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.session.ClearError()})
}

// respond writes the snapshot, together with the error when the action failed.
func respond(c *gin.Context, state entity.State, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"state": state})
		return
	}

	body := gin.H{"error": err.Error(), "kind": apperr.KindOf(err), "state": state}
	if errors.Is(err, context.Canceled) {
		c.JSON(499, body)
		return
	}
	c.JSON(apperr.HTTPStatus(err), body)
}
