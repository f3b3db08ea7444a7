package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/pkg/browser"
	"time"
)

type Mode string

const (
	ModePopup    Mode = "popup"
	ModeRedirect Mode = "redirect"
)

func (m Mode) Valid() bool {
	return m == ModePopup || m == ModeRedirect
}

// Outcome of a sign-in call. Pending means the result arrives later through
// CheckExisting, after the redirect round trip.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePending Outcome = "pending"
)

type SignInResult struct {
	Outcome Outcome
	User    *entity.User
	// AuthURL is where the UI must navigate for a pending redirect.
	AuthURL string
}

// Callback is the loopback redirect of the authorization server.
type Callback struct {
	State            string
	Code             string
	Error            string
	ErrorDescription string
}

// Keys under which providers persist their state.
const (
	SessionKey        = "identity_session"
	PendingKey        = "identity_pending_redirect"
	RedirectResultKey = "identity_redirect_result"
)

var ErrUnknownState = errors.New("callback does not match a pending sign-in")

// SessionStore persists provider state across restarts.
type SessionStore interface {
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	PutJSON(ctx context.Context, key string, v any) error
	Remove(ctx context.Context, keys ...string) error
}

// Browser opens the consent page for popup sign-in.
type Browser interface {
	Open(url string) error
}

type SystemBrowser struct{}

func (SystemBrowser) Open(url string) error {
	return browser.OpenURL(url)
}

// StoredUser is the persisted form of a signed-in user, identity token included.
type StoredUser struct {
	ID          string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
	IDToken     string `json:"idToken"`
}

func FromUser(u entity.User) StoredUser {
	return StoredUser{ID: u.ID, DisplayName: u.DisplayName, Email: u.Email, PhotoURL: u.PhotoURL, IDToken: u.IDToken}
}

func (s StoredUser) User() *entity.User {
	return &entity.User{ID: s.ID, DisplayName: s.DisplayName, Email: s.Email, PhotoURL: s.PhotoURL, IDToken: s.IDToken}
}

// Session is an established identity session.
type Session struct {
	User          StoredUser `json:"user"`
	AccessToken   string     `json:"accessToken,omitempty"`
	RefreshToken  string     `json:"refreshToken,omitempty"`
	IDTokenExpiry time.Time  `json:"idTokenExpiry"`
}

// PendingFlow is a redirect sign-in waiting for its callback.
type PendingFlow struct {
	State     string    `json:"state"`
	Verifier  string    `json:"verifier"`
	CreatedAt time.Time `json:"createdAt"`
}

// RedirectResult is what the callback left for the next CheckExisting.
type RedirectResult struct {
	User  *StoredUser `json:"user,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Normalize maps provider claims onto the internal user.
func Normalize(id, name, email, picture, idToken string) entity.User {
	if name == "" {
		name = entity.DefaultDisplayName
	}
	return entity.User{ID: id, DisplayName: name, Email: email, PhotoURL: picture, IDToken: idToken}
}

// CallbackError maps an OAuth error code onto the taxonomy.
func CallbackError(code, description string) error {
	switch code {
	case "":
		return nil
	case "access_denied", "user_cancelled", "consent_required":
		return fmt.Errorf("%w: %s", apperr.ErrUserCancelled, code)
	case "popup_closed", "popup_blocked":
		return fmt.Errorf("%w: %s", apperr.ErrPopupUnavailable, code)
	case "temporarily_unavailable":
		return fmt.Errorf("%w: %s", apperr.ErrNetworkFailure, code)
	}
	if description != "" {
		return fmt.Errorf("sign-in failed: %s: %s", code, description)
	}
	return fmt.Errorf("sign-in failed: %s", code)
}

func randomString(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func NewState() string {
	return randomString(24)
}

// NewVerifier returns a PKCE code verifier (43 chars).
func NewVerifier() string {
	return randomString(32)
}

// Challenge is the S256 PKCE challenge of verifier.
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
