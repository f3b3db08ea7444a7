package oidc

import (
	"context"
	"errors"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/config"
	"github.com/14kear/online_voting/vote-client/internal/identity"
	"github.com/14kear/online_voting/vote-client/internal/services/tokens"
	"github.com/14kear/online_voting/vote-client/internal/storage/memory"
	"github.com/14kear/online_voting/vote-client/internal/testutil/fakeoidc"
	"github.com/14kear/online_voting/vote-client/utils"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/url"
	"testing"
	"time"
)

// consentBrowser answers the consent page the way the configured user would.
type consentBrowser struct {
	t        *testing.T
	idp      *fakeoidc.Server
	provider *Provider
	user     fakeoidc.User
	deny     bool
	silent   bool
	openErr  error
}

func (b *consentBrowser) Open(raw string) error {
	if b.openErr != nil {
		return b.openErr
	}
	if b.silent {
		return nil
	}

	u, err := url.Parse(raw)
	require.NoError(b.t, err)
	q := u.Query()

	assert.Equal(b.t, "S256", q.Get("code_challenge_method"))
	assert.Equal(b.t, "select_account", q.Get("prompt"))

	cb := identity.Callback{State: q.Get("state")}
	if b.deny {
		cb.Error = "access_denied"
	} else {
		cb.Code = b.idp.Approve(q.Get("code_challenge"), b.user)
	}

	go func() {
		_ = b.provider.HandleCallback(context.Background(), cb)
	}()
	return nil
}

func newFixture(t *testing.T) (*Provider, *consentBrowser, *fakeoidc.Server) {
	t.Helper()

	idp := fakeoidc.New()
	t.Cleanup(idp.Close)

	store := tokens.New(utils.Discard(), memory.New())
	browser := &consentBrowser{
		t:   t,
		idp: idp,
		user: fakeoidc.User{
			Subject: gofakeit.UUID(),
			Email:   gofakeit.Email(),
			Name:    gofakeit.Name(),
			Picture: gofakeit.URL(),
		},
	}

	p, err := New(context.Background(), utils.Discard(), config.IdentityConfig{
		Issuer:       idp.URL,
		ClientID:     fakeoidc.ClientID,
		ClientSecret: fakeoidc.ClientSecret,
		RedirectURL:  "http://localhost:8085/oauth/callback",
		PopupTimeout: 2 * time.Second,
	}, store, browser)
	require.NoError(t, err)

	browser.provider = p
	return p, browser, idp
}

func TestProvider_Popup_Success(t *testing.T) {
	p, browser, _ := newFixture(t)
	ctx := context.Background()

	res, err := p.SignIn(ctx, identity.ModePopup)
	require.NoError(t, err)
	assert.Equal(t, identity.OutcomeSuccess, res.Outcome)
	require.NotNil(t, res.User)
	assert.Equal(t, browser.user.Subject, res.User.ID)
	assert.Equal(t, browser.user.Email, res.User.Email)
	assert.Equal(t, browser.user.Name, res.User.DisplayName)
	assert.NotEmpty(t, res.User.IDToken)

	existing, err := p.CheckExisting(ctx)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, browser.user.Subject, existing.ID)
}

func TestProvider_Popup_OpenFails(t *testing.T) {
	p, browser, _ := newFixture(t)
	browser.openErr = errors.New("no display")

	_, err := p.SignIn(context.Background(), identity.ModePopup)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrPopupUnavailable)
}

func TestProvider_Popup_ClosedWithoutAnswer(t *testing.T) {
	p, browser, _ := newFixture(t)
	browser.silent = true
	p.popupTimeout = 50 * time.Millisecond

	_, err := p.SignIn(context.Background(), identity.ModePopup)
	assert.ErrorIs(t, err, apperr.ErrPopupUnavailable)
}

func TestProvider_Popup_Denied(t *testing.T) {
	p, browser, _ := newFixture(t)
	browser.deny = true

	_, err := p.SignIn(context.Background(), identity.ModePopup)
	assert.ErrorIs(t, err, apperr.ErrUserCancelled)
}

func TestProvider_Popup_TokenEndpointDown(t *testing.T) {
	p, _, idp := newFixture(t)
	ctx := context.Background()

	idp.FailToken(http.StatusInternalServerError)
	_, err := p.SignIn(ctx, identity.ModePopup)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrNetworkFailure)

	idp.Close()
	idp.FailToken(0)
	_, err = p.SignIn(ctx, identity.ModePopup)
	assert.ErrorIs(t, err, apperr.ErrNetworkFailure)
}

func TestProvider_Redirect_RoundTrip(t *testing.T) {
	p, browser, idp := newFixture(t)
	ctx := context.Background()

	res, err := p.SignIn(ctx, identity.ModeRedirect)
	require.NoError(t, err)
	assert.Equal(t, identity.OutcomePending, res.Outcome)
	assert.Nil(t, res.User)
	require.NotEmpty(t, res.AuthURL)

	u, err := url.Parse(res.AuthURL)
	require.NoError(t, err)
	q := u.Query()

	code := idp.Approve(q.Get("code_challenge"), browser.user)
	require.NoError(t, p.HandleCallback(ctx, identity.Callback{State: q.Get("state"), Code: code}))

	user, err := p.CheckExisting(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, browser.user.Subject, user.ID)

	// the redirect result is consumed; the session still answers
	again, err := p.CheckExisting(ctx)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, user.ID, again.ID)
}

func TestProvider_Redirect_Denied(t *testing.T) {
	p, _, _ := newFixture(t)
	ctx := context.Background()

	res, err := p.SignIn(ctx, identity.ModeRedirect)
	require.NoError(t, err)
	u, err := url.Parse(res.AuthURL)
	require.NoError(t, err)

	require.NoError(t, p.HandleCallback(ctx, identity.Callback{State: u.Query().Get("state"), Error: "access_denied"}))

	user, err := p.CheckExisting(ctx)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperr.ErrUserCancelled)
}

func TestProvider_HandleCallback_UnknownState(t *testing.T) {
	p, _, _ := newFixture(t)

	err := p.HandleCallback(context.Background(), identity.Callback{State: "forged", Code: "x"})
	assert.ErrorIs(t, err, identity.ErrUnknownState)
}

func TestProvider_CheckExisting_Empty(t *testing.T) {
	p, _, _ := newFixture(t)

	user, err := p.CheckExisting(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestProvider_CheckExisting_RefreshesExpiredIDToken(t *testing.T) {
	p, browser, _ := newFixture(t)
	ctx := context.Background()

	first, err := p.SignIn(ctx, identity.ModePopup)
	require.NoError(t, err)

	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	user, err := p.CheckExisting(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, browser.user.Subject, user.ID)
	assert.NotEqual(t, first.User.IDToken, user.IDToken)
}

func TestProvider_SignOut(t *testing.T) {
	p, _, _ := newFixture(t)
	ctx := context.Background()

	_, err := p.SignIn(ctx, identity.ModePopup)
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx))

	user, err := p.CheckExisting(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}
