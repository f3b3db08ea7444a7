package handlers

import (
	"context"
	"errors"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/identity"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
)

// CallbackReceiver accepts the authorization server's loopback redirect.
type CallbackReceiver interface {
	HandleCallback(ctx context.Context, cb identity.Callback) error
}

type OAuthHandler struct {
	log       *slog.Logger
	receiver  CallbackReceiver
	session   Session
	returnURL string
}

func NewOAuthHandler(log *slog.Logger, receiver CallbackReceiver, session Session, returnURL string) *OAuthHandler {
	return &OAuthHandler{log: log, receiver: receiver, session: session, returnURL: returnURL}
}

const popupDonePage = `<!doctype html><html><head><meta charset="utf-8"><title>Votaciones</title></head>
<body><p>Inicio de sesión completado. Puedes cerrar esta ventana.</p><script>window.close()</script></body></html>`

// Callback hands the result to the provider. A popup just closes; a redirect
// sign-in is completed by re-running Init and sending the browser back to the UI.
func (h *OAuthHandler) Callback(c *gin.Context) {
	const op = "handlers.OAuthHandler.Callback"

	log := h.log.With(slog.String("op", op))

	// a popup sign-in keeps the session Authenticating without a pending redirect
	snap := h.session.Snapshot()
	popup := snap.Phase == entity.PhaseAuthenticating && !snap.PendingRedirect

	cb := identity.Callback{
		State:            c.Query("state"),
		Code:             c.Query("code"),
		Error:            c.Query("error"),
		ErrorDescription: c.Query("error_description"),
	}

	err := h.receiver.HandleCallback(c.Request.Context(), cb)
	if errors.Is(err, identity.ErrUnknownState) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sign-in state"})
		return
	}
	if err != nil {
		log.Error("failed to handle oauth callback", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
		return
	}

	if popup {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(popupDonePage))
		return
	}

	if _, err := h.session.Init(c.Request.Context()); err != nil {
		log.Warn("init after redirect sign-in failed", sl.Err(err))
	}
	if h.returnURL == "" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(popupDonePage))
		return
	}
	c.Redirect(http.StatusFound, h.returnURL)
}
