package session

import (
	"context"
	"errors"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/clients/authapi"
	"github.com/14kear/online_voting/vote-client/internal/clients/voteapi"
	"github.com/14kear/online_voting/vote-client/internal/config"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/identity"
	"github.com/google/uuid"
	"log/slog"
	"sync"
	"time"
)

//go:generate mockgen -source=session.go -destination=mocks/mocks.go -package=mocks

type IdentityProvider interface {
	Name() string
	SignIn(ctx context.Context, mode identity.Mode) (identity.SignInResult, error)
	CheckExisting(ctx context.Context) (*entity.User, error)
	SignOut(ctx context.Context) error
}

type TokenExchanger interface {
	RequestOneTimeToken(ctx context.Context) (authapi.OneTimeToken, error)
	RedeemForBearer(ctx context.Context, oneTimeToken, identityToken string) (authapi.Bearer, error)
	Probe(ctx context.Context) entity.APIStatus
}

type PollGateway interface {
	ListPolls(ctx context.Context, bearer string) ([]entity.Poll, error)
	CreatePoll(ctx context.Context, bearer string, poll entity.Poll) (entity.Poll, error)
	UpdatePoll(ctx context.Context, bearer string, poll entity.Poll) (entity.Poll, error)
	DeletePoll(ctx context.Context, bearer, token string) (voteapi.Ack, error)
	SubmitVote(ctx context.Context, bearer, pollToken string, selection int) (voteapi.Ack, error)
	FetchResults(ctx context.Context, bearer, pollToken string) (entity.Tally, error)
}

type CredentialStore interface {
	SaveUntil(ctx context.Context, token string, expiresAt time.Time) error
	Read(ctx context.Context) (entity.Credential, error)
	Clear(ctx context.Context) error
	SaveOneTime(ctx context.Context, token string) error
	ClearOneTime(ctx context.Context) error
	SaveUser(ctx context.Context, user entity.User) error
	ClearUser(ctx context.Context) error
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, on bool) error
}

// Publisher receives every committed snapshot. Publish must not block.
type Publisher interface {
	Publish(state entity.State)
}

type nopPublisher struct{}

func (nopPublisher) Publish(entity.State) {}

// Orchestrator owns the session state. All changes go through its named
// actions; each commit produces a new immutable snapshot.
type Orchestrator struct {
	log       *slog.Logger
	idp       IdentityProvider
	exchanger TokenExchanger
	polls     PollGateway
	store     CredentialStore
	pub       Publisher
	cfg       config.SessionConfig
	now       func() time.Time

	mu          sync.Mutex
	state       entity.State
	inflight    int
	busy        bool
	failSafe    *time.Timer
	resultTimer *time.Timer

	// listSeq numbers every poll list request; listShown is the newest one committed.
	listSeq   uint64
	listShown uint64
}

var errSessionEnded = errors.New("session ended while the request was in flight")

func New(
	log *slog.Logger,
	cfg config.SessionConfig,
	idp IdentityProvider,
	exchanger TokenExchanger,
	polls PollGateway,
	store CredentialStore,
	pub Publisher,
) *Orchestrator {
	if pub == nil {
		pub = nopPublisher{}
	}
	o := &Orchestrator{
		log:       log,
		idp:       idp,
		exchanger: exchanger,
		polls:     polls,
		store:     store,
		pub:       pub,
		cfg:       cfg,
		now:       time.Now,
	}
	o.state = entity.State{
		Phase:     entity.PhaseInitializing,
		Screen:    entity.ScreenLoading,
		APIStatus: entity.APIStatusChecking,
		Epoch:     uuid.NewString(),
		At:        o.now(),
	}
	return o
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() entity.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Clone()
}

// Close stops pending timers.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopTimersLocked()
}

// commitLocked applies fn and publishes the new snapshot. mu must be held.
func (o *Orchestrator) commitLocked(fn func(s *entity.State)) entity.State {
	if fn != nil {
		fn(&o.state)
	}
	o.state.Loading = o.inflight > 0
	o.state.Busy = o.busy
	o.state.Version++
	o.state.At = o.now()

	snap := o.state.Clone()
	o.pub.Publish(snap)
	return snap
}

func (o *Orchestrator) commit(fn func(s *entity.State)) entity.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.commitLocked(fn)
}

// commitIf applies fn only while the session epoch is still epoch. A response
// that arrives after sign-out or a new sign-in is dropped.
func (o *Orchestrator) commitIf(epoch string, fn func(s *entity.State)) (entity.State, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Epoch != epoch {
		o.log.Debug("stale response discarded", slog.String("epoch", epoch), slog.String("current", o.state.Epoch))
		return o.state.Clone(), false
	}
	return o.commitLocked(fn), true
}

// begin marks a suspension: the loading flag stays raised until done runs.
// With exclusive set, a second exclusive operation fails with apperr.ErrBusy.
// done returns the snapshot committed when the flags are released.
func (o *Orchestrator) begin(exclusive bool) (epoch string, done func() entity.State, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if exclusive {
		if o.busy {
			return "", nil, apperr.ErrBusy
		}
		o.busy = true
	}
	o.inflight++
	epoch = o.state.Epoch
	o.commitLocked(nil)

	var (
		once sync.Once
		last entity.State
	)
	return epoch, func() entity.State {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			o.inflight--
			if exclusive {
				o.busy = false
			}
			last = o.commitLocked(nil)
		})
		return last
	}, nil
}

// persistIf runs write only while the session epoch is still epoch. The check
// and the write happen under mu, so a sign-out cannot interleave with them.
func (o *Orchestrator) persistIf(epoch string, write func() error) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Epoch != epoch {
		return false, nil
	}
	return true, write()
}

func (o *Orchestrator) stopTimersLocked() {
	if o.failSafe != nil {
		o.failSafe.Stop()
		o.failSafe = nil
	}
	if o.resultTimer != nil {
		o.resultTimer.Stop()
		o.resultTimer = nil
	}
}

func (o *Orchestrator) currentUser() (entity.User, string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.state.Identity || o.state.User == nil {
		return entity.User{}, "", false
	}
	return *o.state.User, o.state.Epoch, true
}

func addVoted(voted []string, token string) []string {
	for _, t := range voted {
		if t == token {
			return voted
		}
	}
	return append(append([]string(nil), voted...), token)
}

func screenForPolls(current entity.Screen, source entity.DataSource, polls []entity.Poll) entity.Screen {
	if source == entity.DataSourceLive && len(polls) == 0 {
		return entity.ScreenEmpty
	}
	switch current {
	case entity.ScreenVotingDetail, entity.ScreenProfile:
		return current
	}
	return entity.ScreenVotingList
}
