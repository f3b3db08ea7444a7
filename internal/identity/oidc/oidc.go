package oidc

import (
	"context"
	"errors"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/config"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/identity"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"log/slog"
	"sync"
	"time"
)

const providerName = "oidc"

type callbackResult struct {
	code    string
	errCode string
	errDesc string
}

type popupFlow struct {
	verifier string
	result   chan callbackResult
}

// Provider signs users in with an OpenID Connect authorization code flow and PKCE.
type Provider struct {
	log          *slog.Logger
	oauth        *oauth2.Config
	verifier     *gooidc.IDTokenVerifier
	store        identity.SessionStore
	browser      identity.Browser
	popupTimeout time.Duration
	now          func() time.Time

	mu     sync.Mutex
	popups map[string]*popupFlow
}

func New(
	ctx context.Context,
	log *slog.Logger,
	cfg config.IdentityConfig,
	store identity.SessionStore,
	browser identity.Browser,
) (*Provider, error) {
	const op = "oidc.New"

	if cfg.ClientID == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf("%s: client id and redirect url are required", op)
	}

	provider, err := gooidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if browser == nil {
		browser = identity.SystemBrowser{}
	}

	return &Provider{
		log: log,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{gooidc.ScopeOpenID, "profile", "email"},
		},
		verifier:     provider.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		store:        store,
		browser:      browser,
		popupTimeout: cfg.PopupTimeout,
		now:          time.Now,
		popups:       make(map[string]*popupFlow),
	}, nil
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) authCodeURL(state, verifier string) string {
	return p.oauth.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("code_challenge", identity.Challenge(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

func (p *Provider) SignIn(ctx context.Context, mode identity.Mode) (identity.SignInResult, error) {
	switch mode {
	case identity.ModePopup:
		return p.signInPopup(ctx)
	case identity.ModeRedirect:
		return p.signInRedirect(ctx)
	}
	return identity.SignInResult{}, fmt.Errorf("oidc.Provider.SignIn: %w: unknown mode %q", apperr.ErrValidation, mode)
}

func (p *Provider) signInPopup(ctx context.Context) (identity.SignInResult, error) {
	const op = "oidc.Provider.signInPopup"

	log := p.log.With(slog.String("op", op))

	state, verifier := identity.NewState(), identity.NewVerifier()
	flow := &popupFlow{verifier: verifier, result: make(chan callbackResult, 1)}

	p.mu.Lock()
	p.popups[state] = flow
	p.mu.Unlock()
	defer p.dropPopup(state)

	if err := p.browser.Open(p.authCodeURL(state, verifier)); err != nil {
		log.Warn("failed to open consent window", sl.Err(err))
		return identity.SignInResult{}, fmt.Errorf("%s: %w: %w", op, apperr.ErrPopupUnavailable, err)
	}

	timer := time.NewTimer(p.popupTimeout)
	defer timer.Stop()

	var res callbackResult
	select {
	case res = <-flow.result:
	case <-timer.C:
		log.Info("consent window closed without answer")
		return identity.SignInResult{}, fmt.Errorf("%s: %w: no callback within %s", op, apperr.ErrPopupUnavailable, p.popupTimeout)
	case <-ctx.Done():
		return identity.SignInResult{}, fmt.Errorf("%s: %w: %w", op, apperr.ErrUserCancelled, ctx.Err())
	}

	if err := identity.CallbackError(res.errCode, res.errDesc); err != nil {
		return identity.SignInResult{}, fmt.Errorf("%s: %w", op, err)
	}

	session, err := p.exchange(ctx, res.code, flow.verifier)
	if err != nil {
		return identity.SignInResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := p.store.PutJSON(ctx, identity.SessionKey, session); err != nil {
		return identity.SignInResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("signed in", slog.String("uid", session.User.ID))

	return identity.SignInResult{Outcome: identity.OutcomeSuccess, User: session.User.User()}, nil
}

func (p *Provider) dropPopup(state string) {
	p.mu.Lock()
	delete(p.popups, state)
	p.mu.Unlock()
}

func (p *Provider) signInRedirect(ctx context.Context) (identity.SignInResult, error) {
	const op = "oidc.Provider.signInRedirect"

	flow := identity.PendingFlow{State: identity.NewState(), Verifier: identity.NewVerifier(), CreatedAt: p.now()}
	if err := p.store.PutJSON(ctx, identity.PendingKey, flow); err != nil {
		return identity.SignInResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return identity.SignInResult{
		Outcome: identity.OutcomePending,
		AuthURL: p.authCodeURL(flow.State, flow.Verifier),
	}, nil
}

// HandleCallback routes the loopback callback to the popup waiting on its
// state, or completes the persisted redirect flow.
func (p *Provider) HandleCallback(ctx context.Context, cb identity.Callback) error {
	const op = "oidc.Provider.HandleCallback"

	log := p.log.With(slog.String("op", op))

	p.mu.Lock()
	flow, ok := p.popups[cb.State]
	if ok {
		delete(p.popups, cb.State)
	}
	p.mu.Unlock()

	if ok {
		flow.result <- callbackResult{code: cb.Code, errCode: cb.Error, errDesc: cb.ErrorDescription}
		return nil
	}

	var pending identity.PendingFlow
	found, err := p.store.GetJSON(ctx, identity.PendingKey, &pending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found || pending.State != cb.State {
		return fmt.Errorf("%s: %w", op, identity.ErrUnknownState)
	}
	if err := p.store.Remove(ctx, identity.PendingKey); err != nil {
		log.Warn("failed to drop pending flow", sl.Err(err))
	}

	var result identity.RedirectResult
	if cb.Error != "" {
		result.Error = cb.Error
	} else {
		session, err := p.exchange(ctx, cb.Code, pending.Verifier)
		if err != nil {
			log.Error("redirect code exchange failed", sl.Err(err))
			result.Error = "exchange_failed"
			if errors.Is(err, apperr.ErrNetworkFailure) {
				result.Error = "temporarily_unavailable"
			}
		} else {
			if err := p.store.PutJSON(ctx, identity.SessionKey, session); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			result.User = &session.User
		}
	}

	if err := p.store.PutJSON(ctx, identity.RedirectResultKey, result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CheckExisting returns the user of a completed redirect or of the stored
// session. nil without error is the signed-out state.
func (p *Provider) CheckExisting(ctx context.Context) (*entity.User, error) {
	const op = "oidc.Provider.CheckExisting"

	log := p.log.With(slog.String("op", op))

	var result identity.RedirectResult
	found, err := p.store.GetJSON(ctx, identity.RedirectResultKey, &result)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if found {
		if err := p.store.Remove(ctx, identity.RedirectResultKey); err != nil {
			log.Warn("failed to drop redirect result", sl.Err(err))
		}
		if result.Error != "" {
			return nil, fmt.Errorf("%s: %w", op, identity.CallbackError(result.Error, ""))
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

	if p.now().Before(session.IDTokenExpiry) {
		return session.User.User(), nil
	}

	refreshed, err := p.refresh(ctx, session)
	if err != nil {
		if errors.Is(err, apperr.ErrNetworkFailure) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("stored session no longer valid", sl.Err(err))
		if err := p.store.Remove(ctx, identity.SessionKey); err != nil {
			log.Warn("failed to drop stale session", sl.Err(err))
		}
		return nil, nil
	}
	if err := p.store.PutJSON(ctx, identity.SessionKey, refreshed); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return refreshed.User.User(), nil
}

func (p *Provider) SignOut(ctx context.Context) error {
	const op = "oidc.Provider.SignOut"

	p.mu.Lock()
	for state, flow := range p.popups {
		flow.result <- callbackResult{errCode: "access_denied"}
		delete(p.popups, state)
	}
	p.mu.Unlock()

	if err := p.store.Remove(ctx, identity.SessionKey, identity.PendingKey, identity.RedirectResultKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (p *Provider) exchange(ctx context.Context, code, verifier string) (identity.Session, error) {
	token, err := p.oauth.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", verifier))
	if err != nil {
		return identity.Session{}, classifyTokenError("code exchange", err)
	}
	return p.sessionFrom(ctx, token, "")
}

func (p *Provider) refresh(ctx context.Context, s identity.Session) (identity.Session, error) {
	if s.RefreshToken == "" {
		return identity.Session{}, errors.New("no refresh token")
	}

	expired := &oauth2.Token{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken, Expiry: time.Unix(1, 0)}
	token, err := p.oauth.TokenSource(ctx, expired).Token()
	if err != nil {
		return identity.Session{}, classifyTokenError("refresh", err)
	}
	return p.sessionFrom(ctx, token, s.RefreshToken)
}

func (p *Provider) sessionFrom(ctx context.Context, token *oauth2.Token, prevRefresh string) (identity.Session, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return identity.Session{}, errors.New("provider did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return identity.Session{}, fmt.Errorf("id_token verification failed: %w", err)
	}

	var claims struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return identity.Session{}, fmt.Errorf("id_token claims parse failed: %w", err)
	}
	if claims.Subject == "" {
		return identity.Session{}, errors.New("id_token missing sub")
	}

	refresh := token.RefreshToken
	if refresh == "" {
		refresh = prevRefresh
	}

	user := identity.Normalize(claims.Subject, claims.Name, claims.Email, claims.Picture, rawIDToken)
	return identity.Session{
		User:          identity.FromUser(user),
		AccessToken:   token.AccessToken,
		RefreshToken:  refresh,
		IDTokenExpiry: idToken.Expiry,
	}, nil
}

// classifyTokenError separates an answer from the authorization server from
// a failure to reach it.
func classifyTokenError(step string, err error) error {
	var retrieve *oauth2.RetrieveError
	if errors.As(err, &retrieve) {
		return fmt.Errorf("%s rejected: %w", step, err)
	}
	return fmt.Errorf("%s: %w: %w", step, apperr.ErrNetworkFailure, err)
}
