package middleware

import (
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/gin-gonic/gin"
	"net/http"
)

// StateReader exposes the current session snapshot.
type StateReader interface {
	Snapshot() entity.State
}

type AuthMiddleware struct {
	session StateReader
}

func NewAuthMiddleware(session StateReader) *AuthMiddleware {
	return &AuthMiddleware{session: session}
}

// Middleware lets a request through only while a user is signed in.
// The live-data credential is not required: reads fall back to local data.
func (m *AuthMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := m.session.Snapshot()
		if !state.Identity || state.User == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}

		c.Set("userID", state.User.ID)
		c.Set("userEmail", state.User.Email)
		c.Next()
	}
}
