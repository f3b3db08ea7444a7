package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/storage"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"log/slog"
	"strconv"
	"time"
)

const (
	keyBearer       = "api_jwt"
	keyBearerExpiry = "jwt_expiry"
	keyOneTime      = "vote_temp_token"
	keyUser         = "vote_user_data"
	keyDarkMode     = "dark_mode"
)

// KV is the durable key-value area the store persists into.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Store owns the bearer credential of the secondary API and the small set of
// client preferences persisted next to it.
type Store struct {
	log *slog.Logger
	kv  KV
	now func() time.Time
}

func New(log *slog.Logger, kv KV) *Store {
	return NewWithClock(log, kv, time.Now)
}

func NewWithClock(log *slog.Logger, kv KV, now func() time.Time) *Store {
	return &Store{log: log, kv: kv, now: now}
}

// Save persists token with an expiry of now+ttl.
func (s *Store) Save(ctx context.Context, token string, ttl time.Duration) error {
	return s.SaveUntil(ctx, token, s.now().Add(ttl))
}

func (s *Store) SaveUntil(ctx context.Context, token string, expiresAt time.Time) error {
	const op = "tokens.Store.Save"

	if token == "" {
		return fmt.Errorf("%s: empty token", op)
	}

	// expiry first: a bearer without expiry reads as missing
	expiry := strconv.FormatInt(expiresAt.UnixMilli(), 10)
	if err := s.kv.Set(ctx, keyBearerExpiry, []byte(expiry)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.kv.Set(ctx, keyBearer, []byte(token)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Read returns the stored credential while now < expiry. An expired entry is
// reported as storage.ErrTokenNotFound and removed on the way out.
func (s *Store) Read(ctx context.Context) (entity.Credential, error) {
	const op = "tokens.Store.Read"

	log := s.log.With(slog.String("op", op))

	token, err := s.kv.Get(ctx, keyBearer)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return entity.Credential{}, fmt.Errorf("%s: %w", op, storage.ErrTokenNotFound)
		}
		return entity.Credential{}, fmt.Errorf("%s: %w", op, err)
	}

	rawExpiry, err := s.kv.Get(ctx, keyBearerExpiry)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return entity.Credential{}, fmt.Errorf("%s: %w", op, err)
	}

	var expiresAt time.Time
	if err == nil {
		ms, parseErr := strconv.ParseInt(string(rawExpiry), 10, 64)
		if parseErr == nil {
			expiresAt = time.UnixMilli(ms)
		}
	}

	cred := entity.Credential{Token: string(token), ExpiresAt: expiresAt}
	if !cred.Valid(s.now()) {
		if err := s.kv.Delete(ctx, keyBearer, keyBearerExpiry); err != nil {
			log.Warn("failed to drop expired bearer", sl.Err(err))
		}
		return entity.Credential{}, fmt.Errorf("%s: %w", op, storage.ErrTokenNotFound)
	}

	return cred, nil
}

// Clear drops the bearer, its expiry and any pending one-time token.
func (s *Store) Clear(ctx context.Context) error {
	const op = "tokens.Store.Clear"

	if err := s.kv.Delete(ctx, keyBearer, keyBearerExpiry, keyOneTime); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) SaveOneTime(ctx context.Context, token string) error {
	const op = "tokens.Store.SaveOneTime"

	if err := s.kv.Set(ctx, keyOneTime, []byte(token)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) ClearOneTime(ctx context.Context) error {
	const op = "tokens.Store.ClearOneTime"

	if err := s.kv.Delete(ctx, keyOneTime); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// storedUser mirrors entity.User including the identity token, which the
// entity hides from JSON.
type storedUser struct {
	ID          string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

// SaveUser persists the public part of the user. The identity token is never written.
func (s *Store) SaveUser(ctx context.Context, user entity.User) error {
	const op = "tokens.Store.SaveUser"

	raw, err := json.Marshal(storedUser{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		PhotoURL:    user.PhotoURL,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.kv.Set(ctx, keyUser, raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) User(ctx context.Context) (*entity.User, error) {
	const op = "tokens.Store.User"

	raw, err := s.kv.Get(ctx, keyUser)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var su storedUser
	if err := json.Unmarshal(raw, &su); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &entity.User{ID: su.ID, DisplayName: su.DisplayName, Email: su.Email, PhotoURL: su.PhotoURL}, nil
}

func (s *Store) ClearUser(ctx context.Context) error {
	const op = "tokens.Store.ClearUser"

	if err := s.kv.Delete(ctx, keyUser); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) DarkMode(ctx context.Context) (bool, error) {
	const op = "tokens.Store.DarkMode"

	raw, err := s.kv.Get(ctx, keyDarkMode)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return string(raw) == "true", nil
}

func (s *Store) SetDarkMode(ctx context.Context, on bool) error {
	const op = "tokens.Store.SetDarkMode"

	if err := s.kv.Set(ctx, keyDarkMode, []byte(strconv.FormatBool(on))); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetJSON decodes the value stored under key into v. found is false when the key is absent.
func (s *Store) GetJSON(ctx context.Context, key string, v any) (found bool, err error) {
	const op = "tokens.Store.GetJSON"

	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (s *Store) PutJSON(ctx context.Context, key string, v any) error {
	const op = "tokens.Store.PutJSON"

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, keys ...string) error {
	const op = "tokens.Store.Remove"

	if err := s.kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
