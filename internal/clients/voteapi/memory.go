package voteapi

import (
	"context"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/lib/jwt"
	"github.com/google/uuid"
	"log/slog"
	"sync"
)

type memPoll struct {
	poll   entity.Poll
	owner  string
	voters map[string]struct{}
}

// Memory is an in-process polls backend. It validates bearers issued by
// authapi.Local with the same secret and applies the live backend's rules:
// one vote per voter and poll, owner-only update and delete.
type Memory struct {
	log    *slog.Logger
	secret string

	mu    sync.Mutex
	order []string
	polls map[string]*memPoll
}

// NewMemory seeds the backend with the fallback dataset.
func NewMemory(log *slog.Logger, secret string) *Memory {
	m := &Memory{log: log, secret: secret, polls: make(map[string]*memPoll)}
	for _, p := range FallbackPolls() {
		p.Token = "mem-" + p.Token
		m.order = append(m.order, p.Token)
		m.polls[p.Token] = &memPoll{poll: p, voters: make(map[string]struct{})}
	}
	return m
}

func (m *Memory) voter(bearer string) (string, error) {
	sub, err := jwt.Subject(bearer, m.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperr.ErrCredentialExpired, err)
	}
	return sub, nil
}

func (m *Memory) view(p *memPoll, voter string) entity.Poll {
	c := p.poll.Clone()
	c.Owner = p.owner != "" && p.owner == voter
	return c
}

func (m *Memory) ListPolls(_ context.Context, bearer string) ([]entity.Poll, error) {
	const op = "voteapi.Memory.ListPolls"

	voter, err := m.voter(bearer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]entity.Poll, 0, len(m.order))
	for _, token := range m.order {
		out = append(out, m.view(m.polls[token], voter))
	}
	return out, nil
}

func (m *Memory) GetPoll(_ context.Context, bearer, token string) (entity.Poll, error) {
	const op = "voteapi.Memory.GetPoll"

	voter, err := m.voter(bearer)
	if err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.polls[token]
	if !ok {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return m.view(p, voter), nil
}

func (m *Memory) CreatePoll(_ context.Context, bearer string, poll entity.Poll) (entity.Poll, error) {
	const op = "voteapi.Memory.CreatePoll"

	voter, err := m.voter(bearer)
	if err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := poll.Validate(); err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	created := poll.Clone()
	created.Token = uuid.NewString()
	created.Active = true
	for i := range created.Options {
		created.Options[i].Votes = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := &memPoll{poll: created, owner: voter, voters: make(map[string]struct{})}
	m.polls[created.Token] = p
	m.order = append(m.order, created.Token)

	m.log.Debug("poll created", slog.String("op", op), slog.String("token", created.Token))

	return m.view(p, voter), nil
}

func (m *Memory) UpdatePoll(_ context.Context, bearer string, poll entity.Poll) (entity.Poll, error) {
	const op = "voteapi.Memory.UpdatePoll"

	voter, err := m.voter(bearer)
	if err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := poll.Validate(); err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.polls[poll.Token]
	if !ok {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if p.owner != voter {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}

	// counts belong to the backend; keep them for options whose code survives
	updated := poll.Clone()
	for i := range updated.Options {
		prev, _ := p.poll.Option(updated.Options[i].Selection)
		updated.Options[i].Votes = prev.Votes
	}
	p.poll = updated

	return m.view(p, voter), nil
}

func (m *Memory) DeletePoll(_ context.Context, bearer, token string) (Ack, error) {
	const op = "voteapi.Memory.DeletePoll"

	voter, err := m.voter(bearer)
	if err != nil {
		return Ack{}, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.polls[token]
	if !ok {
		return Ack{}, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if p.owner != voter {
		return Ack{}, fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}

	delete(m.polls, token)
	for i, t := range m.order {
		if t == token {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return Ack{OK: true, Message: "deleted"}, nil
}

func (m *Memory) SubmitVote(_ context.Context, bearer, pollToken string, selection int) (Ack, error) {
	const op = "voteapi.Memory.SubmitVote"

	voter, err := m.voter(bearer)
	if err != nil {
		return Ack{}, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.polls[pollToken]
	if !ok {
		return Ack{}, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if _, voted := p.voters[voter]; voted {
		return Ack{}, fmt.Errorf("%s: %w", op, apperr.ErrAlreadyVoted)
	}
	if !p.poll.Active {
		return Ack{}, fmt.Errorf("%s: %w: poll is closed", op, apperr.ErrValidation)
	}

	idx := -1
	for i, o := range p.poll.Options {
		if o.Selection == selection {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Ack{}, fmt.Errorf("%s: %w: unknown selection %d", op, apperr.ErrValidation, selection)
	}

	p.poll.Options[idx].Votes++
	p.voters[voter] = struct{}{}

	return Ack{OK: true, Message: "vote registered"}, nil
}

func (m *Memory) FetchResults(_ context.Context, bearer, pollToken string) (entity.Tally, error) {
	const op = "voteapi.Memory.FetchResults"

	if _, err := m.voter(bearer); err != nil {
		return entity.Tally{}, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.polls[pollToken]
	if !ok {
		return entity.Tally{}, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return entity.TallyOf(p.poll), nil
}
