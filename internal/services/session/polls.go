package session

import (
	"context"
	"errors"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"log/slog"
	"strings"
	"time"
)

// Refresh reloads the poll list. It does not take the busy flag, so it may
// run alongside a mutation; a list older than the one already shown is dropped.
func (o *Orchestrator) Refresh(ctx context.Context) (state entity.State, err error) {
	const op = "session.Orchestrator.Refresh"

	user, _, ok := o.currentUser()
	if !ok {
		return o.Snapshot(), fmt.Errorf("%s: %w", op, apperr.ErrNotSignedIn)
	}

	epoch, done, err := o.begin(false)
	if err != nil {
		return o.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}
	defer func() { state = done() }()

	res := o.reconcile(ctx, epoch, user)

	snap, _ := o.commitIf(epoch, func(s *entity.State) {
		if o.applySyncLocked(s, res) && s.Phase == entity.PhaseErrored {
			s.Phase = entity.PhaseReady
		}
	})
	if res.err != nil {
		return snap, fmt.Errorf("%s: %w", op, res.err)
	}
	return snap, nil
}

// SubmitVote casts a vote with the option's selection code. On success the
// list is reloaded and the result screen shows until the result timer fires.
func (o *Orchestrator) SubmitVote(ctx context.Context, pollToken string, selection int) (state entity.State, err error) {
	const op = "session.Orchestrator.SubmitVote"

	log := o.log.With(slog.String("op", op), slog.String("poll", pollToken))

	o.mu.Lock()
	user, epoch, err := o.checkVoteLocked(pollToken, selection)
	if err != nil {
		snap := o.commitLocked(func(s *entity.State) { s.Error = noticeFor(err, pollToken) })
		o.mu.Unlock()
		return snap, fmt.Errorf("%s: %w", op, err)
	}
	o.mu.Unlock()

	_, done, err := o.begin(true)
	if err != nil {
		return o.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}
	defer func() { state = done() }()

	if _, ok := o.commitIf(epoch, func(s *entity.State) {
		s.Phase = entity.PhaseVotingInFlight
		s.Error = nil
	}); !ok {
		return o.Snapshot(), fmt.Errorf("%s: %w", op, apperr.ErrInvalidTransition)
	}

	err = o.withCredential(ctx, epoch, user, func(bearer string) error {
		_, err := o.polls.SubmitVote(ctx, bearer, pollToken, selection)
		return err
	})
	if err != nil {
		log.Warn("vote rejected", sl.Err(err))
		return o.failMutation(ctx, epoch, user, pollToken, err, op)
	}

	log.Info("vote recorded", slog.Int("selection", selection))

	res := o.reconcile(ctx, epoch, user)
	snap, _ := o.commitIf(epoch, func(s *entity.State) {
		o.applySyncLocked(s, res)
		s.VotedPolls = addVoted(s.VotedPolls, pollToken)
		s.Phase = entity.PhaseShowingResult
		s.Screen = entity.ScreenSuccess
		o.startResultTimerLocked(epoch)
	})
	return snap, nil
}

func (o *Orchestrator) checkVoteLocked(pollToken string, selection int) (entity.User, string, error) {
	s := &o.state
	if !s.Identity || s.User == nil {
		return entity.User{}, "", apperr.ErrNotSignedIn
	}
	if s.Phase != entity.PhaseReady {
		return entity.User{}, "", fmt.Errorf("%w: phase %s", apperr.ErrInvalidTransition, s.Phase)
	}
	if s.DataSource != entity.DataSourceLive {
		return entity.User{}, "", apperr.ErrReadOnly
	}
	poll, ok := entity.FindPoll(s.Polls, pollToken)
	if !ok {
		return entity.User{}, "", apperr.ErrNotFound
	}
	if !poll.Active {
		return entity.User{}, "", fmt.Errorf("%w: poll is closed", apperr.ErrValidation)
	}
	if _, ok := poll.Option(selection); !ok {
		return entity.User{}, "", fmt.Errorf("%w: unknown selection %d", apperr.ErrValidation, selection)
	}
	if s.HasVoted(pollToken) {
		return entity.User{}, "", apperr.ErrAlreadyVoted
	}
	return *s.User, s.Epoch, nil
}

// FetchResults loads the tally of a poll and recomputes its option counts.
// With fallback data the counts already held locally are used.
func (o *Orchestrator) FetchResults(ctx context.Context, pollToken string) (state entity.State, err error) {
	const op = "session.Orchestrator.FetchResults"

	o.mu.Lock()
	if !o.state.Identity || o.state.User == nil {
		o.mu.Unlock()
		return o.Snapshot(), fmt.Errorf("%s: %w", op, apperr.ErrNotSignedIn)
	}
	poll, ok := entity.FindPoll(o.state.Polls, pollToken)
	if !ok {
		snap := o.commitLocked(func(s *entity.State) { s.Error = noticeFor(apperr.ErrNotFound, pollToken) })
		o.mu.Unlock()
		return snap, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	user := *o.state.User
	live := o.state.DataSource == entity.DataSourceLive
	snap := o.commitLocked(func(s *entity.State) {
		p := poll.Clone()
		s.Selected = &p
		s.Results = nil
		if !live {
			t := entity.TallyOf(poll)
			s.Results = &t
		}
	})
	o.mu.Unlock()

	if !live {
		return snap, nil
	}

	epoch, done, err := o.begin(false)
	if err != nil {
		return o.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}
	defer func() { state = done() }()

	var tally entity.Tally
	err = o.withCredential(ctx, epoch, user, func(bearer string) error {
		var err error
		tally, err = o.polls.FetchResults(ctx, bearer, pollToken)
		return err
	})

	snap, _ = o.commitIf(epoch, func(s *entity.State) {
		if s.Selected == nil || s.Selected.Token != pollToken {
			o.log.Debug("results for a deselected poll discarded", slog.String("op", op), slog.String("poll", pollToken))
			return
		}
		if err != nil {
			s.Error = noticeFor(err, pollToken)
			return
		}
		t := tally
		s.Results = &t
		updated := s.Selected.WithTally(tally)
		s.Selected = &updated
		for i := range s.Polls {
			if s.Polls[i].Token == pollToken {
				s.Polls[i] = updated.Clone()
			}
		}
	})
	if err != nil {
		return snap, fmt.Errorf("%s: %w", op, err)
	}
	return snap, nil
}

// CreatePoll creates a poll owned by the current user. Selection codes are
// assigned 1..N in the order labels are given.
func (o *Orchestrator) CreatePoll(ctx context.Context, name string, labels []string) (entity.State, error) {
	const op = "session.Orchestrator.CreatePoll"

	poll := entity.NewPoll(name, labels)
	if err := poll.Validate(); err != nil {
		snap := o.commit(func(s *entity.State) { s.Error = noticeFor(err, "") })
		return snap, fmt.Errorf("%s: %w: %w", op, apperr.ErrValidation, err)
	}

	return o.mutate(ctx, op, "", func(bearer string) error {
		_, err := o.polls.CreatePoll(ctx, bearer, poll)
		return err
	})
}

func (o *Orchestrator) UpdatePoll(ctx context.Context, poll entity.Poll) (entity.State, error) {
	const op = "session.Orchestrator.UpdatePoll"

	if strings.TrimSpace(poll.Token) == "" {
		err := fmt.Errorf("%w: poll token is empty", apperr.ErrValidation)
		snap := o.commit(func(s *entity.State) { s.Error = noticeFor(err, "") })
		return snap, fmt.Errorf("%s: %w", op, err)
	}
	if err := poll.Validate(); err != nil {
		snap := o.commit(func(s *entity.State) { s.Error = noticeFor(err, poll.Token) })
		return snap, fmt.Errorf("%s: %w: %w", op, apperr.ErrValidation, err)
	}

	return o.mutate(ctx, op, poll.Token, func(bearer string) error {
		_, err := o.polls.UpdatePoll(ctx, bearer, poll)
		return err
	})
}

func (o *Orchestrator) DeletePoll(ctx context.Context, pollToken string) (entity.State, error) {
	const op = "session.Orchestrator.DeletePoll"

	return o.mutate(ctx, op, pollToken, func(bearer string) error {
		_, err := o.polls.DeletePoll(ctx, bearer, pollToken)
		return err
	})
}

// mutate runs one exclusive write against the live backend and reloads the
// poll list afterwards.
func (o *Orchestrator) mutate(ctx context.Context, op, pollToken string, call func(bearer string) error) (state entity.State, err error) {
	log := o.log.With(slog.String("op", op))

	o.mu.Lock()
	switch {
	case !o.state.Identity || o.state.User == nil:
		err = apperr.ErrNotSignedIn
	case o.state.Phase != entity.PhaseReady:
		err = fmt.Errorf("%w: phase %s", apperr.ErrInvalidTransition, o.state.Phase)
	case o.state.DataSource != entity.DataSourceLive:
		err = apperr.ErrReadOnly
	}
	if err != nil {
		snap := o.commitLocked(func(s *entity.State) { s.Error = noticeFor(err, pollToken) })
		o.mu.Unlock()
		return snap, fmt.Errorf("%s: %w", op, err)
	}
	user, epoch := *o.state.User, o.state.Epoch
	o.mu.Unlock()

	_, done, err := o.begin(true)
	if err != nil {
		return o.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}
	defer func() { state = done() }()

	if err := o.withCredential(ctx, epoch, user, call); err != nil {
		log.Warn("mutation failed", sl.Err(err))
		return o.failMutation(ctx, epoch, user, pollToken, err, op)
	}

	res := o.reconcile(ctx, epoch, user)
	snap, _ := o.commitIf(epoch, func(s *entity.State) {
		o.applySyncLocked(s, res)
		s.Phase = entity.PhaseReady
	})
	return snap, nil
}

// failMutation returns to Ready with an inline notice attached to the poll,
// whatever the gateway error. When the bearer could not be renewed the data
// source degrades to fallback.
func (o *Orchestrator) failMutation(ctx context.Context, epoch string, user entity.User, pollToken string, err error, op string) (entity.State, error) {
	var res *syncResult
	switch apperr.KindOf(err) {
	case apperr.KindCredentialExpired, apperr.KindSecondaryAuth:
		r := o.reconcile(ctx, epoch, user)
		res = &r
	}

	snap, _ := o.commitIf(epoch, func(s *entity.State) {
		if res != nil {
			o.applySyncLocked(s, *res)
		}
		s.Phase = entity.PhaseReady
		if errors.Is(err, apperr.ErrAlreadyVoted) {
			s.VotedPolls = addVoted(s.VotedPolls, pollToken)
		}
		s.Error = noticeFor(err, pollToken)
	})
	return snap, fmt.Errorf("%s: %w", op, err)
}

// withCredential runs call with a valid bearer. A bearer the backend rejects
// is cleared and exchanged once, silently, before giving up.
func (o *Orchestrator) withCredential(ctx context.Context, epoch string, user entity.User, call func(bearer string) error) error {
	const op = "session.Orchestrator.withCredential"

	log := o.log.With(slog.String("op", op))

	cred, err := o.ensureCredential(ctx, epoch, user)
	if err != nil {
		return err
	}

	err = call(cred.Token)
	if !errors.Is(err, apperr.ErrCredentialExpired) {
		return err
	}

	log.Info("bearer rejected, re-exchanging once")
	if clearErr := o.store.Clear(ctx); clearErr != nil {
		log.Warn("failed to clear rejected bearer", sl.Err(clearErr))
	}
	cred, err = o.exchange(ctx, epoch, user)
	if err != nil {
		return err
	}
	err = call(cred.Token)
	if errors.Is(err, apperr.ErrCredentialExpired) {
		if clearErr := o.store.Clear(ctx); clearErr != nil {
			log.Warn("failed to clear rejected bearer", sl.Err(clearErr))
		}
	}
	return err
}

func (o *Orchestrator) startResultTimerLocked(epoch string) {
	if o.resultTimer != nil {
		o.resultTimer.Stop()
	}
	o.resultTimer = time.AfterFunc(o.cfg.ResultDisplay, func() {
		o.resultShown(epoch)
	})
}

func (o *Orchestrator) resultShown(epoch string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Epoch != epoch || o.state.Phase != entity.PhaseShowingResult {
		return
	}
	o.resultTimer = nil

	o.commitLocked(func(s *entity.State) {
		s.Phase = entity.PhaseReady
		s.Screen = screenForPolls(entity.ScreenVotingList, s.DataSource, s.Polls)
	})
}

func noticeFor(err error, pollToken string) *entity.Notice {
	n := apperr.Describe(err)
	if n != nil {
		n.PollToken = pollToken
	}
	return n
}
