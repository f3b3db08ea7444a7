package demo

import (
	"context"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/identity"
	"github.com/14kear/online_voting/vote-client/internal/lib/jwt"
	"log/slog"
	"strconv"
	"time"
)

const (
	providerName = "demo"

	demoName  = "Usuario Demo"
	demoEmail = "demo@voteapp.com"

	idTokenTTL = time.Hour
)

// Provider signs in a fixed demo user without any external identity service.
// It is used when no OAuth client is configured.
type Provider struct {
	log       *slog.Logger
	store     identity.SessionStore
	secret    string
	returnURL string
	now       func() time.Time
}

func New(log *slog.Logger, store identity.SessionStore, secret, returnURL string) *Provider {
	return &Provider{log: log, store: store, secret: secret, returnURL: returnURL, now: time.Now}
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) newSession() (identity.Session, error) {
	now := p.now()
	id := "demo-user-" + strconv.FormatInt(now.UnixMilli(), 10)

	token, err := jwt.NewSigned(id, demoEmail, p.secret, now, idTokenTTL)
	if err != nil {
		return identity.Session{}, err
	}

	user := identity.Normalize(id, demoName, demoEmail, "", token)
	return identity.Session{User: identity.FromUser(user), IDTokenExpiry: now.Add(idTokenTTL)}, nil
}

func (p *Provider) SignIn(ctx context.Context, mode identity.Mode) (identity.SignInResult, error) {
	const op = "demo.Provider.SignIn"

	if !mode.Valid() {
		return identity.SignInResult{}, fmt.Errorf("%s: %w: unknown mode %q", op, apperr.ErrValidation, mode)
	}

	session, err := p.newSession()
	if err != nil {
		return identity.SignInResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := p.store.PutJSON(ctx, identity.SessionKey, session); err != nil {
		return identity.SignInResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if mode == identity.ModeRedirect {
		// the result is picked up by CheckExisting after the UI comes back
		if err := p.store.PutJSON(ctx, identity.RedirectResultKey, identity.RedirectResult{User: &session.User}); err != nil {
			return identity.SignInResult{}, fmt.Errorf("%s: %w", op, err)
		}
		return identity.SignInResult{Outcome: identity.OutcomePending, AuthURL: p.returnURL}, nil
	}

	p.log.Info("demo user signed in", slog.String("op", op), slog.String("uid", session.User.ID))

	return identity.SignInResult{Outcome: identity.OutcomeSuccess, User: session.User.User()}, nil
}

func (p *Provider) CheckExisting(ctx context.Context) (*entity.User, error) {
	const op = "demo.Provider.CheckExisting"

	var result identity.RedirectResult
	found, err := p.store.GetJSON(ctx, identity.RedirectResultKey, &result)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if found {
		if err := p.store.Remove(ctx, identity.RedirectResultKey); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if result.User != nil {
			return result.User.User(), nil
		}
	}

	var session identity.Session
	found, err = p.store.GetJSON(ctx, identity.SessionKey, &session)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, nil
	}

	if !p.now().Before(session.IDTokenExpiry) {
		// the demo session never expires; reissue the token for the same user
		token, err := jwt.NewSigned(session.User.ID, demoEmail, p.secret, p.now(), idTokenTTL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		session.User.IDToken = token
		session.IDTokenExpiry = p.now().Add(idTokenTTL)
		if err := p.store.PutJSON(ctx, identity.SessionKey, session); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return session.User.User(), nil
}

func (p *Provider) HandleCallback(_ context.Context, _ identity.Callback) error {
	return fmt.Errorf("demo.Provider.HandleCallback: %w", identity.ErrUnknownState)
}

func (p *Provider) SignOut(ctx context.Context) error {
	const op = "demo.Provider.SignOut"

	if err := p.store.Remove(ctx, identity.SessionKey, identity.PendingKey, identity.RedirectResultKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
