package session

import (
	"context"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"log/slog"
)

// Navigate switches the visible screen. The detail screen needs a poll from
// the current list; everything but login needs a signed-in user.
func (o *Orchestrator) Navigate(screen entity.Screen, pollToken string) (entity.State, error) {
	const op = "session.Orchestrator.Navigate"

	o.mu.Lock()
	defer o.mu.Unlock()

	var (
		poll entity.Poll
		err  error
	)
	switch {
	case !screen.Valid():
		err = fmt.Errorf("%w: unknown screen %q", apperr.ErrValidation, screen)
	case screen == entity.ScreenLoading || screen == entity.ScreenSuccess || screen == entity.ScreenError:
		err = fmt.Errorf("%w: screen %q is not navigable", apperr.ErrValidation, screen)
	case screen == entity.ScreenLogin && o.state.Identity:
		err = fmt.Errorf("%w: already signed in", apperr.ErrInvalidTransition)
	case screen != entity.ScreenLogin && !o.state.Identity:
		err = apperr.ErrNotSignedIn
	case screen == entity.ScreenVotingDetail:
		var ok bool
		if poll, ok = entity.FindPoll(o.state.Polls, pollToken); !ok {
			err = apperr.ErrNotFound
		}
	}
	if err != nil {
		return o.state.Clone(), fmt.Errorf("%s: %w", op, err)
	}

	return o.commitLocked(func(s *entity.State) {
		if s.Phase == entity.PhaseShowingResult {
			if o.resultTimer != nil {
				o.resultTimer.Stop()
				o.resultTimer = nil
			}
			s.Phase = entity.PhaseReady
		}
		s.Screen = screen
		s.Error = nil
		switch screen {
		case entity.ScreenVotingDetail:
			if s.Selected == nil || s.Selected.Token != poll.Token {
				s.Results = nil
			}
			p := poll.Clone()
			s.Selected = &p
		case entity.ScreenVotingList, entity.ScreenEmpty:
			s.Selected = nil
			s.Results = nil
		}
	}), nil
}

// ToggleDarkMode persists the flipped preference before publishing it.
func (o *Orchestrator) ToggleDarkMode(ctx context.Context) (entity.State, error) {
	const op = "session.Orchestrator.ToggleDarkMode"

	on := !o.Snapshot().DarkMode
	if err := o.store.SetDarkMode(ctx, on); err != nil {
		o.log.Error("failed to persist dark mode", slog.String("op", op), sl.Err(err))
		return o.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}

	return o.commit(func(s *entity.State) { s.DarkMode = on }), nil
}

// ClearError dismisses the current notice and leaves Errored.
func (o *Orchestrator) ClearError() entity.State {
	return o.commit(func(s *entity.State) {
		s.Error = nil
		if s.Phase != entity.PhaseErrored {
			return
		}
		if s.Identity {
			s.Phase = entity.PhaseReady
			s.Screen = screenForPolls(entity.ScreenVotingList, s.DataSource, s.Polls)
			return
		}
		s.Phase = entity.PhaseLoggedOut
		s.Screen = entity.ScreenLogin
	})
}

// Retry recovers from a failure: back to Ready with reloaded data when a user
// is present, to LoggedOut otherwise.
func (o *Orchestrator) Retry(ctx context.Context) (state entity.State, err error) {
	const op = "session.Orchestrator.Retry"

	user, _, ok := o.currentUser()
	if !ok {
		return o.commit(func(s *entity.State) {
			o.stopFailSafeLocked()
			o.toLoggedOutLocked(s, nil)
		}), nil
	}

	epoch, done, err := o.begin(true)
	if err != nil {
		return o.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}
	defer func() { state = done() }()

	res := o.reconcile(ctx, epoch, user)
	snap, _ := o.commitIf(epoch, func(s *entity.State) {
		o.applySyncLocked(s, res)
		s.Phase = entity.PhaseReady
	})
	return snap, nil
}
