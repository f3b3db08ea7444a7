package authapi

import (
	"context"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/lib/jwt"
	"github.com/google/uuid"
	"log/slog"
	"sync"
	"time"
)

// Local issues bearers signed with a shared secret. It stands in for the
// gateway when the client runs against the in-process mock backend.
type Local struct {
	log    *slog.Logger
	secret string
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	pending map[string]time.Time
}

func NewLocal(log *slog.Logger, secret string, ttl time.Duration) *Local {
	return &Local{
		log:     log,
		secret:  secret,
		ttl:     ttl,
		now:     time.Now,
		pending: make(map[string]time.Time),
	}
}

func (l *Local) RequestOneTimeToken(_ context.Context) (OneTimeToken, error) {
	token := uuid.NewString()
	created := l.now()

	l.mu.Lock()
	l.pending[token] = created
	l.mu.Unlock()

	return OneTimeToken{Token: token, Created: created}, nil
}

// RedeemForBearer consumes oneTimeToken. A token can be redeemed once.
func (l *Local) RedeemForBearer(_ context.Context, oneTimeToken, identityToken string) (Bearer, error) {
	const op = "authapi.Local.RedeemForBearer"

	l.mu.Lock()
	_, ok := l.pending[oneTimeToken]
	delete(l.pending, oneTimeToken)
	l.mu.Unlock()

	if !ok {
		return Bearer{}, fmt.Errorf("%s: %w: unknown one-time token", op, apperr.ErrSecondaryAuthFailed)
	}
	if identityToken == "" {
		return Bearer{}, fmt.Errorf("%s: %w: identity token required", op, apperr.ErrSecondaryAuthFailed)
	}

	subject, ok := jwt.SubjectUnverified(identityToken)
	if !ok {
		subject = identityToken
	}

	issued := l.now()
	token, err := jwt.NewSigned(subject, "", l.secret, issued, l.ttl)
	if err != nil {
		return Bearer{}, fmt.Errorf("%s: %w: %w", op, apperr.ErrSecondaryAuthFailed, err)
	}

	l.log.Debug("local bearer issued", slog.String("op", op), slog.String("subject", subject))

	return Bearer{Token: token, IssuedAt: issued, ExpiresAt: issued.Add(l.ttl)}, nil
}

func (l *Local) Probe(_ context.Context) entity.APIStatus {
	return entity.APIStatusAvailable
}
