package apperr

import (
	"errors"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindNone},
		{name: "wrapped", err: fmt.Errorf("voteapi.Client.SubmitVote: %w", ErrAlreadyVoted), want: KindAlreadyVoted},
		{name: "secondary over network", err: fmt.Errorf("op: %w: %w", ErrSecondaryAuthFailed, ErrNetworkFailure), want: KindSecondaryAuth},
		{name: "invalid poll", err: fmt.Errorf("op: %w", entity.ErrInvalidPoll), want: KindValidation},
		{name: "unknown", err: errors.New("boom"), want: KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Nil(t, Describe(nil))
	assert.Nil(t, Describe(fmt.Errorf("op: %w", ErrUserCancelled)))

	n := Describe(ErrPopupUnavailable)
	require.NotNil(t, n)
	assert.Equal(t, entity.ActionRedirect, n.Action)
	assert.NotEmpty(t, n.Message)

	n = Describe(ErrAlreadyVoted)
	require.NotNil(t, n)
	assert.Equal(t, entity.ActionBack, n.Action)
	assert.Equal(t, string(KindAlreadyVoted), n.Kind)

	n = Describe(errors.New("boom"))
	require.NotNil(t, n)
	assert.Equal(t, entity.ActionRetry, n.Action)
	assert.Equal(t, string(KindUnexpected), n.Kind)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrBusy))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrValidation))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrReadOnly))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(ErrSecondaryAuthFailed))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
