package voteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/config"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

var errMalformed = errors.New("malformed payload")

// Ack is the generic {ok, message} answer of mutating calls.
type Ack struct {
	OK      bool
	Message string
}

// Client talks to the bearer-protected polls backend.
type Client struct {
	log      *slog.Logger
	http     *http.Client
	baseURL  string
	appToken string
	appKey   string
}

func New(log *slog.Logger, cfg config.APIConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		log:      log,
		http:     httpClient,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/") + cfg.VotePath,
		appToken: cfg.Token,
		appKey:   cfg.Key,
	}
}

func (c *Client) ListPolls(ctx context.Context, bearer string) ([]entity.Poll, error) {
	const op = "voteapi.Client.ListPolls"

	var wire []pollVO
	if _, err := c.do(ctx, http.MethodGet, "/polls/", bearer, nil, &wire); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	polls := make([]entity.Poll, 0, len(wire))
	for _, p := range wire {
		polls = append(polls, p.toEntity())
	}

	c.log.Debug("polls listed", slog.String("op", op), slog.Int("count", len(polls)))

	return polls, nil
}

func (c *Client) GetPoll(ctx context.Context, bearer, token string) (entity.Poll, error) {
	const op = "voteapi.Client.GetPoll"

	var wire pollVO
	if _, err := c.do(ctx, http.MethodGet, "/polls/"+url.PathEscape(token), bearer, nil, &wire); err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}
	return wire.toEntity(), nil
}

func (c *Client) CreatePoll(ctx context.Context, bearer string, poll entity.Poll) (entity.Poll, error) {
	const op = "voteapi.Client.CreatePoll"

	if err := poll.Validate(); err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	body := newPollVO{Name: poll.Name, Options: optionsVO(poll.Options)}

	var wire pollVO
	if _, err := c.do(ctx, http.MethodPost, "/polls/", bearer, body, &wire); err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}
	return wire.toEntity(), nil
}

func (c *Client) UpdatePoll(ctx context.Context, bearer string, poll entity.Poll) (entity.Poll, error) {
	const op = "voteapi.Client.UpdatePoll"

	if poll.Token == "" {
		return entity.Poll{}, fmt.Errorf("%s: %w: poll token is empty", op, apperr.ErrValidation)
	}
	if err := poll.Validate(); err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	active := poll.Active
	body := pollVO{Token: poll.Token, Name: poll.Name, Active: &active, Options: optionsVO(poll.Options)}

	var wire pollVO
	if _, err := c.do(ctx, http.MethodPut, "/polls/", bearer, body, &wire); err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}
	if wire.Token == "" {
		// some deployments answer with an empty body
		return poll.Clone(), nil
	}
	return wire.toEntity(), nil
}

func (c *Client) DeletePoll(ctx context.Context, bearer, token string) (Ack, error) {
	const op = "voteapi.Client.DeletePoll"

	ack, err := c.ack(ctx, http.MethodDelete, "/polls/"+url.PathEscape(token), bearer, nil)
	if err != nil {
		return Ack{}, fmt.Errorf("%s: %w", op, err)
	}
	return ack, nil
}

// SubmitVote casts selection, the option's selection code, never its index.
func (c *Client) SubmitVote(ctx context.Context, bearer, pollToken string, selection int) (Ack, error) {
	const op = "voteapi.Client.SubmitVote"

	ack, err := c.ack(ctx, http.MethodPost, "/vote/election", bearer, voteVO{PollToken: pollToken, Selection: selection})
	if err != nil {
		return Ack{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ack.OK {
		// {ok:false} with a 2xx still means the vote was not recorded
		return Ack{}, fmt.Errorf("%s: %w", op, classifyMessage(ack.Message, fmt.Errorf("vote rejected: %s", ack.Message)))
	}
	return ack, nil
}

func (c *Client) FetchResults(ctx context.Context, bearer, pollToken string) (entity.Tally, error) {
	const op = "voteapi.Client.FetchResults"

	var wire resultsVO
	if _, err := c.do(ctx, http.MethodGet, "/vote/"+url.PathEscape(pollToken)+"/results", bearer, nil, &wire); err != nil {
		return entity.Tally{}, fmt.Errorf("%s: %w", op, err)
	}

	tally := entity.Tally{PollName: wire.Name, Counts: make([]entity.LabelCount, 0, len(wire.Results))}
	for _, r := range wire.Results {
		tally.Counts = append(tally.Counts, entity.LabelCount{Label: r.Choice, Total: r.Total})
	}
	return tally, nil
}

func (c *Client) ack(ctx context.Context, method, path, bearer string, body any) (Ack, error) {
	var wire ackVO
	status, err := c.do(ctx, method, path, bearer, body, &wire)
	if err != nil {
		return Ack{}, err
	}
	if status == http.StatusAccepted || status == http.StatusNoContent || wire.OK == nil {
		msg := wire.Message
		if msg == "" {
			msg = "accepted"
		}
		return Ack{OK: true, Message: msg}, nil
	}
	return Ack{OK: *wire.OK, Message: wire.Message}, nil
}

// do executes the call and decodes a 2xx body into out. An empty 2xx body leaves out untouched.
func (c *Client) do(ctx context.Context, method, path, bearer string, body any, out any) (int, error) {
	if bearer == "" {
		return 0, apperr.ErrCredentialExpired
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if c.appToken != "" {
		req.Header.Set("X-API-TOKEN", c.appToken)
		req.Header.Set("X-API-KEY", c.appKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperr.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %w", apperr.ErrNetworkFailure, err)
	}

	if resp.StatusCode >= 300 {
		return resp.StatusCode, classify(resp.StatusCode, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %w", errMalformed, err)
	}
	return resp.StatusCode, nil
}
