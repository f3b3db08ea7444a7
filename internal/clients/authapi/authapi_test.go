package authapi

import (
	"context"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/config"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/lib/jwt"
	"github.com/14kear/online_voting/vote-client/internal/testutil/fakeapi"
	"github.com/14kear/online_voting/vote-client/utils"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"testing"
	"time"
)

func newTestClient(t *testing.T, srv *fakeapi.Server, method string) *Client {
	t.Helper()
	cfg := config.APIConfig{
		BaseURL:      srv.URL,
		AuthPath:     "/auth",
		VotePath:     "/vote",
		Token:        fakeapi.AppToken,
		Key:          fakeapi.AppKey,
		RedeemMethod: method,
		Timeout:      2 * time.Second,
		BearerTTL:    50 * time.Minute,
	}
	return New(utils.Discard(), cfg, nil)
}

func TestClient_Exchange_Success(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodGet} {
		t.Run(method, func(t *testing.T) {
			srv := fakeapi.New()
			defer srv.Close()
			client := newTestClient(t, srv, method)
			ctx := context.Background()

			ott, err := client.RequestOneTimeToken(ctx)
			require.NoError(t, err)
			assert.NotEmpty(t, ott.Token)
			assert.Contains(t, ott.RedirectURL, ott.Token)
			assert.False(t, ott.Created.IsZero())

			identity, err := jwt.NewSigned(gofakeit.UUID(), gofakeit.Email(), "idp", time.Now(), time.Hour)
			require.NoError(t, err)

			bearer, err := client.RedeemForBearer(ctx, ott.Token, identity)
			require.NoError(t, err)
			assert.NotEmpty(t, bearer.Token)
			assert.Equal(t, identity, srv.LastIDToken())
			assert.WithinDuration(t, time.Now().Add(time.Hour), bearer.ExpiresAt, 5*time.Second)
		})
	}
}

func TestClient_Redeem_TwiceFails(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	client := newTestClient(t, srv, http.MethodPost)
	ctx := context.Background()

	ott, err := client.RequestOneTimeToken(ctx)
	require.NoError(t, err)

	_, err = client.RedeemForBearer(ctx, ott.Token, "id-token")
	require.NoError(t, err)

	_, err = client.RedeemForBearer(ctx, ott.Token, "id-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrSecondaryAuthFailed)
}

func TestClient_RequestOneTimeToken_Failures(t *testing.T) {
	cases := []struct {
		name    string
		failure fakeapi.Failure
	}{
		{name: "server error", failure: fakeapi.Failure{Status: http.StatusInternalServerError, Detail: "boom"}},
		{name: "unauthorized", failure: fakeapi.Failure{Status: http.StatusUnauthorized, Detail: "bad credentials"}},
		{name: "malformed payload", failure: fakeapi.Failure{Status: http.StatusOK, Raw: "<html>proxy</html>"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := fakeapi.New()
			defer srv.Close()
			srv.Fail(fakeapi.RouteLogin, tc.failure)

			_, err := newTestClient(t, srv, http.MethodPost).RequestOneTimeToken(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrSecondaryAuthFailed)
			assert.Equal(t, apperr.KindSecondaryAuth, apperr.KindOf(err))
		})
	}
}

func TestClient_Redeem_ServerError(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	client := newTestClient(t, srv, http.MethodPost)

	ott, err := client.RequestOneTimeToken(context.Background())
	require.NoError(t, err)

	srv.Fail(fakeapi.RouteRedeem, fakeapi.Failure{Status: http.StatusBadGateway, Detail: "upstream"})

	_, err = client.RedeemForBearer(context.Background(), ott.Token, "id-token")
	assert.ErrorIs(t, err, apperr.ErrSecondaryAuthFailed)
}

func TestClient_Unreachable(t *testing.T) {
	srv := fakeapi.New()
	client := newTestClient(t, srv, http.MethodPost)
	srv.Close()

	_, err := client.RequestOneTimeToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrSecondaryAuthFailed)
	assert.ErrorIs(t, err, apperr.ErrNetworkFailure)
}

func TestClient_Probe(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	client := newTestClient(t, srv, http.MethodPost)

	assert.Equal(t, entity.APIStatusAvailable, client.Probe(context.Background()))

	srv.Fail(fakeapi.RouteLogin, fakeapi.Failure{Status: http.StatusServiceUnavailable})
	assert.Equal(t, entity.APIStatusError, client.Probe(context.Background()))

	client.appKey = ""
	assert.Equal(t, entity.APIStatusUnavailable, client.Probe(context.Background()))
}

func TestLocal_Exchange(t *testing.T) {
	local := NewLocal(utils.Discard(), "secret", 50*time.Minute)
	ctx := context.Background()

	ott, err := local.RequestOneTimeToken(ctx)
	require.NoError(t, err)

	identity, err := jwt.NewSigned("user-42", "", "idp", time.Now(), time.Hour)
	require.NoError(t, err)

	bearer, err := local.RedeemForBearer(ctx, ott.Token, identity)
	require.NoError(t, err)

	sub, err := jwt.Subject(bearer.Token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-42", sub)

	_, err = local.RedeemForBearer(ctx, ott.Token, identity)
	assert.ErrorIs(t, err, apperr.ErrSecondaryAuthFailed)
}

func TestLocal_RequiresIdentityToken(t *testing.T) {
	local := NewLocal(utils.Discard(), "secret", time.Minute)

	ott, err := local.RequestOneTimeToken(context.Background())
	require.NoError(t, err)

	_, err = local.RedeemForBearer(context.Background(), ott.Token, "")
	assert.ErrorIs(t, err, apperr.ErrSecondaryAuthFailed)
}
