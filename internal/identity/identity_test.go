package identity

import (
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestChallenge_RFC7636Vector(t *testing.T) {
	// appendix B of RFC 7636
	assert.Equal(t,
		"E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
		Challenge("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"),
	)
}

func TestNewVerifier(t *testing.T) {
	v := NewVerifier()
	assert.Len(t, v, 43)
	assert.NotEqual(t, v, NewVerifier())
	assert.NotEqual(t, NewState(), NewState())
}

func TestNormalize_DefaultName(t *testing.T) {
	u := Normalize("uid", "", "a@b.c", "", "tok")
	assert.Equal(t, entity.DefaultDisplayName, u.DisplayName)
	assert.Equal(t, "tok", u.IDToken)
}

func TestCallbackError(t *testing.T) {
	assert.NoError(t, CallbackError("", ""))
	assert.ErrorIs(t, CallbackError("access_denied", ""), apperr.ErrUserCancelled)
	assert.ErrorIs(t, CallbackError("popup_closed", ""), apperr.ErrPopupUnavailable)
	assert.ErrorIs(t, CallbackError("temporarily_unavailable", ""), apperr.ErrNetworkFailure)
	assert.Equal(t, apperr.KindUnexpected, apperr.KindOf(CallbackError("server_error", "boom")))
}

func TestStoredUser_RoundTrip(t *testing.T) {
	u := entity.User{ID: "1", DisplayName: "Ana", Email: "ana@example.com", PhotoURL: "p", IDToken: "t"}
	assert.Equal(t, u, *FromUser(u).User())
}
