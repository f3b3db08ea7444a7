package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/config"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/lib/jwt"
	"github.com/14kear/online_voting/vote-client/internal/lib/redact"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	headerAPIToken = "X-API-TOKEN"
	headerAPIKey   = "X-API-KEY"
	headerIDToken  = "X-ID-TOKEN"
)

var errMalformed = errors.New("malformed payload")

type OneTimeToken struct {
	Token       string
	RedirectURL string
	Created     time.Time
}

type Bearer struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Client performs the two-step token exchange against the secondary API gateway.
type Client struct {
	log          *slog.Logger
	http         *http.Client
	baseURL      string
	appToken     string
	appKey       string
	redeemMethod string
	fallbackTTL  time.Duration
	now          func() time.Time
}

func New(log *slog.Logger, cfg config.APIConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	method := strings.ToUpper(cfg.RedeemMethod)
	if method != http.MethodGet {
		method = http.MethodPost
	}
	return &Client{
		log:          log,
		http:         httpClient,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/") + cfg.AuthPath,
		appToken:     cfg.Token,
		appKey:       cfg.Key,
		redeemMethod: method,
		fallbackTTL:  cfg.BearerTTL,
		now:          time.Now,
	}
}

type tokenVO struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
	Created     string `json:"created"`
}

type jwtVO struct {
	JWT     string `json:"jwt"`
	Created string `json:"created"`
}

type redeemRequest struct {
	IDToken string `json:"idToken"`
}

// RequestOneTimeToken authenticates the application, not the user.
func (c *Client) RequestOneTimeToken(ctx context.Context) (OneTimeToken, error) {
	const op = "authapi.Client.RequestOneTimeToken"

	log := c.log.With(slog.String("op", op))

	var vo tokenVO
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/tokens/login", nil, "", &vo); err != nil {
		log.Warn("failed to request one-time token", sl.Err(err))
		return OneTimeToken{}, fmt.Errorf("%s: %w: %w", op, apperr.ErrSecondaryAuthFailed, err)
	}
	if vo.Token == "" {
		return OneTimeToken{}, fmt.Errorf("%s: %w: %w: empty token", op, apperr.ErrSecondaryAuthFailed, errMalformed)
	}

	log.Debug("one-time token issued", redact.Token("token", vo.Token))

	return OneTimeToken{
		Token:       vo.Token,
		RedirectURL: vo.RedirectURL,
		Created:     c.parseCreated(vo.Created),
	}, nil
}

// RedeemForBearer trades the one-time token plus the identity token for a bearer.
func (c *Client) RedeemForBearer(ctx context.Context, oneTimeToken, identityToken string) (Bearer, error) {
	const op = "authapi.Client.RedeemForBearer"

	log := c.log.With(slog.String("op", op))

	if oneTimeToken == "" {
		return Bearer{}, fmt.Errorf("%s: %w: empty one-time token", op, apperr.ErrSecondaryAuthFailed)
	}

	var body any
	if c.redeemMethod == http.MethodPost {
		body = redeemRequest{IDToken: identityToken}
	}

	var vo jwtVO
	endpoint := c.baseURL + "/tokens/" + url.PathEscape(oneTimeToken) + "/jwt"
	if err := c.do(ctx, c.redeemMethod, endpoint, body, identityToken, &vo); err != nil {
		log.Warn("failed to redeem one-time token", sl.Err(err))
		return Bearer{}, fmt.Errorf("%s: %w: %w", op, apperr.ErrSecondaryAuthFailed, err)
	}
	if vo.JWT == "" {
		return Bearer{}, fmt.Errorf("%s: %w: %w: empty jwt", op, apperr.ErrSecondaryAuthFailed, errMalformed)
	}

	issued := c.parseCreated(vo.Created)
	if iat, ok := jwt.IssuedAt(vo.JWT); ok {
		issued = iat
	}

	expires, err := jwt.ExpiresAt(vo.JWT)
	if err != nil {
		log.Debug("bearer has no readable exp, using fallback ttl", slog.Duration("ttl", c.fallbackTTL))
		expires = issued.Add(c.fallbackTTL)
	}

	log.Info("bearer issued", redact.Token("jwt", vo.JWT), slog.Time("expires_at", expires))

	return Bearer{Token: vo.JWT, IssuedAt: issued, ExpiresAt: expires}, nil
}

// Probe reports whether the gateway answers with the configured app credentials.
func (c *Client) Probe(ctx context.Context) entity.APIStatus {
	const op = "authapi.Client.Probe"

	log := c.log.With(slog.String("op", op))

	if c.appToken == "" || c.appKey == "" {
		log.Warn("app credentials not configured")
		return entity.APIStatusUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tokens/login", nil)
	if err != nil {
		return entity.APIStatusError
	}
	c.sign(req)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("gateway unreachable", sl.Err(err))
		return entity.APIStatusUnavailable
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 300 || resp.StatusCode == http.StatusNotFound {
		return entity.APIStatusAvailable
	}
	log.Warn("gateway answered with error", slog.Int("status", resp.StatusCode))
	return entity.APIStatusError
}

func (c *Client) sign(req *http.Request) {
	req.Header.Set(headerAPIToken, c.appToken)
	req.Header.Set(headerAPIKey, c.appKey)
	req.Header.Set("Accept", "application/json")
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, identityToken string, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	c.sign(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if identityToken != "" {
		req.Header.Set(headerIDToken, identityToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrNetworkFailure, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %w", errMalformed, err)
	}
	return nil
}

func (c *Client) parseCreated(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return c.now()
}
