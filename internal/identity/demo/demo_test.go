package demo

import (
	"context"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/identity"
	"github.com/14kear/online_voting/vote-client/internal/lib/jwt"
	"github.com/14kear/online_voting/vote-client/internal/services/tokens"
	"github.com/14kear/online_voting/vote-client/internal/storage/memory"
	"github.com/14kear/online_voting/vote-client/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"
)

func newTestProvider() *Provider {
	store := tokens.New(utils.Discard(), memory.New())
	return New(utils.Discard(), store, "demo-secret", "http://localhost:5173/")
}

func TestProvider_Popup(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()

	res, err := p.SignIn(ctx, identity.ModePopup)
	require.NoError(t, err)
	assert.Equal(t, identity.OutcomeSuccess, res.Outcome)
	require.NotNil(t, res.User)
	assert.Equal(t, "Usuario Demo", res.User.DisplayName)
	assert.Equal(t, "demo@voteapp.com", res.User.Email)
	assert.True(t, strings.HasPrefix(res.User.ID, "demo-user-"))

	sub, ok := jwt.SubjectUnverified(res.User.IDToken)
	require.True(t, ok)
	assert.Equal(t, res.User.ID, sub)

	existing, err := p.CheckExisting(ctx)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, res.User.ID, existing.ID)
}

func TestProvider_Redirect(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()

	res, err := p.SignIn(ctx, identity.ModeRedirect)
	require.NoError(t, err)
	assert.Equal(t, identity.OutcomePending, res.Outcome)
	assert.Nil(t, res.User)
	assert.Equal(t, "http://localhost:5173/", res.AuthURL)

	user, err := p.CheckExisting(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Usuario Demo", user.DisplayName)
}

func TestProvider_ReissuesExpiredToken(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()

	res, err := p.SignIn(ctx, identity.ModePopup)
	require.NoError(t, err)

	p.now = func() time.Time { return time.Now().Add(3 * time.Hour) }

	user, err := p.CheckExisting(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, res.User.ID, user.ID)
	assert.NotEqual(t, res.User.IDToken, user.IDToken)
}

func TestProvider_SignOut(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()

	_, err := p.SignIn(ctx, identity.ModePopup)
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx))

	user, err := p.CheckExisting(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestProvider_InvalidMode(t *testing.T) {
	_, err := newTestProvider().SignIn(context.Background(), identity.Mode("carrier-pigeon"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
