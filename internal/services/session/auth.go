package session

import (
	"context"
	"errors"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/clients/voteapi"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/identity"
	"github.com/14kear/online_voting/vote-client/internal/lib/redact"
	"github.com/14kear/online_voting/vote-client/internal/storage"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/google/uuid"
	"log/slog"
	"time"
)

// Init restores the session on startup, and again when the UI comes back
// from a redirect sign-in. It is a no-op once a user is present.
func (o *Orchestrator) Init(ctx context.Context) (state entity.State, err error) {
	const op = "session.Orchestrator.Init"

	log := o.log.With(slog.String("op", op))

	o.mu.Lock()
	if o.state.Identity {
		snap := o.state.Clone()
		o.mu.Unlock()
		return snap, nil
	}
	o.mu.Unlock()

	epoch, done, err := o.begin(true)
	if err != nil {
		return o.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}
	defer func() { state = done() }()

	dark, err := o.store.DarkMode(ctx)
	if err != nil {
		log.Warn("failed to read dark mode preference", sl.Err(err))
	}
	o.commitIf(epoch, func(s *entity.State) {
		s.DarkMode = dark
		s.Screen = entity.ScreenLoading
		s.APIStatus = entity.APIStatusChecking
	})

	status := o.exchanger.Probe(ctx)
	o.commitIf(epoch, func(s *entity.State) { s.APIStatus = status })

	user, err := o.idp.CheckExisting(ctx)
	if err != nil {
		log.Warn("failed to restore identity session", sl.Err(err))
		snap, _ := o.commitIf(epoch, func(s *entity.State) {
			o.stopFailSafeLocked()
			o.toLoggedOutLocked(s, err)
		})
		return snap, fmt.Errorf("%s: %w", op, err)
	}

	if user == nil {
		if err := o.store.ClearUser(ctx); err != nil {
			log.Warn("failed to clear stored user", sl.Err(err))
		}
		snap, _ := o.commitIf(epoch, func(s *entity.State) {
			redirected := s.PendingRedirect
			o.stopFailSafeLocked()
			o.toLoggedOutLocked(s, nil)
			s.CanRetryWithRedirect = redirected
		})
		return snap, nil
	}

	return o.establish(ctx, epoch, *user), nil
}

// SignIn starts an identity sign-in. A redirect sign-in returns while still
// Authenticating; the fail-safe timer ends that state if the UI never returns.
func (o *Orchestrator) SignIn(ctx context.Context, mode identity.Mode) (state entity.State, err error) {
	const op = "session.Orchestrator.SignIn"

	log := o.log.With(slog.String("op", op), slog.String("mode", string(mode)))

	if !mode.Valid() {
		return o.Snapshot(), fmt.Errorf("%s: %w: unknown mode %q", op, apperr.ErrValidation, mode)
	}

	o.mu.Lock()
	if o.state.Identity {
		snap := o.state.Clone()
		o.mu.Unlock()
		return snap, fmt.Errorf("%s: %w: already signed in", op, apperr.ErrInvalidTransition)
	}
	o.mu.Unlock()

	_, done, err := o.begin(true)
	if err != nil {
		return o.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}
	defer func() { state = done() }()

	epoch := uuid.NewString()
	o.commit(func(s *entity.State) {
		o.stopFailSafeLocked()
		s.Epoch = epoch
		s.Phase = entity.PhaseAuthenticating
		s.Screen = entity.ScreenLoading
		s.Error = nil
		s.PendingRedirect = false
		s.RedirectURL = ""
		s.CanRetryWithRedirect = false
	})

	res, err := o.idp.SignIn(ctx, mode)
	if err != nil {
		log.Warn("sign-in failed", sl.Err(err))
		snap, _ := o.commitIf(epoch, func(s *entity.State) {
			if apperr.KindOf(err) == apperr.KindUnexpected {
				o.toErroredLocked(s, err)
				return
			}
			o.toLoggedOutLocked(s, err)
		})
		return snap, fmt.Errorf("%s: %w", op, err)
	}

	if res.Outcome == identity.OutcomePending {
		log.Info("redirect sign-in pending")
		snap, _ := o.commitIf(epoch, func(s *entity.State) {
			s.PendingRedirect = true
			s.RedirectURL = res.AuthURL
			o.startFailSafeLocked(epoch)
		})
		return snap, nil
	}

	if res.User == nil {
		err := errors.New("provider returned no user")
		snap, _ := o.commitIf(epoch, func(s *entity.State) { o.toErroredLocked(s, err) })
		return snap, fmt.Errorf("%s: %w", op, err)
	}

	return o.establish(ctx, epoch, *res.User), nil
}

// SignOut always completes: the token store is cleared, the identity session
// is invalidated and all user and poll state is dropped, even when one of the
// steps fails. The failures are returned joined.
func (o *Orchestrator) SignOut(ctx context.Context) (entity.State, error) {
	const op = "session.Orchestrator.SignOut"

	log := o.log.With(slog.String("op", op))

	// the epoch moves first: writes fenced on the old epoch stop before the store is cleared
	snap := o.commit(func(s *entity.State) {
		o.stopTimersLocked()
		dark, status := s.DarkMode, s.APIStatus
		*s = entity.State{
			Phase:     entity.PhaseLoggedOut,
			Screen:    entity.ScreenLogin,
			APIStatus: status,
			DarkMode:  dark,
			Epoch:     uuid.NewString(),
			Version:   s.Version,
		}
	})

	errStore := o.store.Clear(ctx)
	errIdentity := o.idp.SignOut(ctx)
	errUser := o.store.ClearUser(ctx)

	if err := errors.Join(errStore, errIdentity, errUser); err != nil {
		log.Error("sign-out completed with errors", sl.Err(err))
		return snap, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("signed out")
	return snap, nil
}

// RetryExchange runs the secondary-API exchange again for the present user
// and switches to live data when it succeeds.
func (o *Orchestrator) RetryExchange(ctx context.Context) (state entity.State, err error) {
	const op = "session.Orchestrator.RetryExchange"

	user, _, ok := o.currentUser()
	if !ok {
		return o.Snapshot(), fmt.Errorf("%s: %w", op, apperr.ErrNotSignedIn)
	}

	epoch, done, err := o.begin(true)
	if err != nil {
		return o.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}
	defer func() { state = done() }()

	status := o.exchanger.Probe(ctx)
	res := o.reconcile(ctx, epoch, user)

	snap, _ := o.commitIf(epoch, func(s *entity.State) {
		s.APIStatus = status
		o.applySyncLocked(s, res)
		s.Phase = entity.PhaseReady
	})
	if res.err != nil {
		return snap, fmt.Errorf("%s: %w", op, res.err)
	}
	return snap, nil
}

// establish records the signed-in user and reconciles the credential and data source.
// Identity is set before the exchange runs so a failed exchange leaves the user present.
func (o *Orchestrator) establish(ctx context.Context, epoch string, user entity.User) entity.State {
	const op = "session.Orchestrator.establish"

	log := o.log.With(slog.String("op", op), slog.String("uid", user.ID))

	if _, err := o.persistIf(epoch, func() error { return o.store.SaveUser(ctx, user) }); err != nil {
		log.Warn("failed to persist user", sl.Err(err))
	}

	o.commitIf(epoch, func(s *entity.State) {
		o.stopFailSafeLocked()
		u := user
		s.User = &u
		s.Identity = true
		s.Phase = entity.PhaseAuthenticating
		s.PendingRedirect = false
		s.RedirectURL = ""
		s.CanRetryWithRedirect = false
		s.Error = nil
	})

	res := o.reconcile(ctx, epoch, user)

	snap, _ := o.commitIf(epoch, func(s *entity.State) {
		o.applySyncLocked(s, res)
		s.Phase = entity.PhaseReady
	})

	log.Info("session ready", slog.String("data_source", string(snap.DataSource)))
	return snap
}

type syncResult struct {
	cred   *entity.Credential
	polls  []entity.Poll
	source entity.DataSource
	notice *entity.Notice
	err    error
	gen    uint64
}

// reconcile obtains a bearer and the poll list. Live data requires both; any
// failure degrades to the fallback dataset without touching identity.
func (o *Orchestrator) reconcile(ctx context.Context, epoch string, user entity.User) syncResult {
	o.mu.Lock()
	o.listSeq++
	gen := o.listSeq
	o.mu.Unlock()

	res := o.loadPolls(ctx, epoch, user)
	res.gen = gen
	return res
}

func (o *Orchestrator) loadPolls(ctx context.Context, epoch string, user entity.User) syncResult {
	const op = "session.Orchestrator.loadPolls"

	log := o.log.With(slog.String("op", op))

	cred, err := o.ensureCredential(ctx, epoch, user)
	if err != nil {
		log.Warn("secondary auth unavailable, using fallback data", sl.Err(err))
		return fallbackResult(nil, err)
	}

	polls, err := o.polls.ListPolls(ctx, cred.Token)
	if errors.Is(err, apperr.ErrCredentialExpired) {
		log.Info("bearer rejected, re-exchanging once")
		if clearErr := o.store.Clear(ctx); clearErr != nil {
			log.Warn("failed to clear rejected bearer", sl.Err(clearErr))
		}
		cred, err = o.exchange(ctx, epoch, user)
		if err != nil {
			return fallbackResult(nil, err)
		}
		polls, err = o.polls.ListPolls(ctx, cred.Token)
		if errors.Is(err, apperr.ErrCredentialExpired) {
			if clearErr := o.store.Clear(ctx); clearErr != nil {
				log.Warn("failed to clear rejected bearer", sl.Err(clearErr))
			}
			return fallbackResult(nil, err)
		}
	}
	if err != nil {
		log.Warn("failed to list polls, using fallback data", sl.Err(err))
		return fallbackResult(&cred, err)
	}

	return syncResult{cred: &cred, polls: polls, source: entity.DataSourceLive}
}

func fallbackResult(cred *entity.Credential, err error) syncResult {
	notice := apperr.Describe(err)
	switch apperr.KindOf(err) {
	case apperr.KindSecondaryAuth, apperr.KindNetworkFailure:
	default:
		notice = apperr.Describe(apperr.ErrReadOnly)
	}
	return syncResult{
		cred:   cred,
		polls:  voteapi.FallbackPolls(),
		source: entity.DataSourceFallback,
		notice: notice,
		err:    err,
	}
}

// applySyncLocked commits a reconcile result. A result older than the last
// committed list is dropped and false is returned.
func (o *Orchestrator) applySyncLocked(s *entity.State, res syncResult) bool {
	if res.gen < o.listShown {
		o.log.Debug("stale poll list discarded", slog.Uint64("gen", res.gen), slog.Uint64("shown", o.listShown))
		return false
	}
	o.listShown = res.gen

	if res.cred != nil {
		exp := res.cred.ExpiresAt
		s.Credential = entity.CredentialStatus{Valid: true, ExpiresAt: &exp}
	} else {
		s.Credential = entity.CredentialStatus{}
	}
	s.Polls = res.polls
	s.DataSource = res.source
	s.Error = res.notice
	s.Screen = screenForPolls(s.Screen, res.source, res.polls)

	if s.Selected != nil {
		if p, ok := entity.FindPoll(res.polls, s.Selected.Token); ok {
			s.Selected = &p
		} else {
			s.Selected = nil
			s.Results = nil
			if s.Screen == entity.ScreenVotingDetail {
				s.Screen = entity.ScreenVotingList
			}
		}
	}
	return true
}

// ensureCredential returns the stored bearer while valid, exchanging for a new one otherwise.
func (o *Orchestrator) ensureCredential(ctx context.Context, epoch string, user entity.User) (entity.Credential, error) {
	cred, err := o.store.Read(ctx)
	if err == nil {
		return cred, nil
	}
	if !errors.Is(err, storage.ErrTokenNotFound) {
		o.log.Warn("failed to read stored bearer", slog.String("op", "session.Orchestrator.ensureCredential"), sl.Err(err))
	}
	return o.exchange(ctx, epoch, user)
}

// exchange obtains a new bearer for user. Store writes are fenced on epoch: a
// bearer redeemed after sign-out is dropped and never persisted.
func (o *Orchestrator) exchange(ctx context.Context, epoch string, user entity.User) (entity.Credential, error) {
	const op = "session.Orchestrator.exchange"

	log := o.log.With(slog.String("op", op))

	if user.IDToken == "" {
		return entity.Credential{}, fmt.Errorf("%s: %w: identity token missing", op, apperr.ErrSecondaryAuthFailed)
	}

	ott, err := o.exchanger.RequestOneTimeToken(ctx)
	if err != nil {
		return entity.Credential{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := o.persistIf(epoch, func() error { return o.store.SaveOneTime(ctx, ott.Token) }); err != nil {
		log.Warn("failed to persist one-time token", sl.Err(err))
	}

	bearer, err := o.exchanger.RedeemForBearer(ctx, ott.Token, user.IDToken)
	if clearErr := o.store.ClearOneTime(ctx); clearErr != nil {
		log.Warn("failed to clear one-time token", sl.Err(clearErr))
	}
	if err != nil {
		return entity.Credential{}, fmt.Errorf("%s: %w", op, err)
	}

	current, err := o.persistIf(epoch, func() error {
		return o.store.SaveUntil(ctx, bearer.Token, bearer.ExpiresAt)
	})
	if !current {
		log.Info("bearer dropped, session ended", redact.Token("jwt", bearer.Token))
		return entity.Credential{}, fmt.Errorf("%s: %w", op, errSessionEnded)
	}
	if err != nil {
		log.Warn("failed to persist bearer", sl.Err(err))
	}

	log.Info("bearer obtained", redact.Token("jwt", bearer.Token), slog.Time("expires_at", bearer.ExpiresAt))

	return entity.Credential{Token: bearer.Token, ExpiresAt: bearer.ExpiresAt}, nil
}

func (o *Orchestrator) toLoggedOutLocked(s *entity.State, err error) {
	s.Phase = entity.PhaseLoggedOut
	s.Screen = entity.ScreenLogin
	s.User = nil
	s.Identity = false
	s.PendingRedirect = false
	s.RedirectURL = ""
	s.Error = apperr.Describe(err)
	s.CanRetryWithRedirect = apperr.KindOf(err) == apperr.KindPopupUnavailable
}

func (o *Orchestrator) toErroredLocked(s *entity.State, err error) {
	s.Phase = entity.PhaseErrored
	s.Screen = entity.ScreenError
	s.PendingRedirect = false
	s.RedirectURL = ""
	s.Error = apperr.Describe(err)
}

func (o *Orchestrator) startFailSafeLocked(epoch string) {
	o.stopFailSafeLocked()
	o.failSafe = time.AfterFunc(o.cfg.RedirectFailSafe, func() {
		o.redirectExpired(epoch)
	})
}

func (o *Orchestrator) stopFailSafeLocked() {
	if o.failSafe != nil {
		o.failSafe.Stop()
		o.failSafe = nil
	}
}

func (o *Orchestrator) redirectExpired(epoch string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Epoch != epoch || o.state.Phase != entity.PhaseAuthenticating || !o.state.PendingRedirect {
		return
	}
	o.failSafe = nil

	o.log.Warn("redirect sign-in did not complete", slog.String("op", "session.Orchestrator.redirectExpired"))

	o.commitLocked(func(s *entity.State) {
		o.toLoggedOutLocked(s, apperr.ErrRedirectTimeout)
		s.CanRetryWithRedirect = true
	})
}
