package voteapi

import (
	"context"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/lib/jwt"
	"github.com/14kear/online_voting/vote-client/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

const memSecret = "memory-secret"

func memBearer(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewSigned(subject, "", memSecret, time.Now(), time.Hour)
	require.NoError(t, err)
	return token
}

func TestMemory_SeededAndRoundTrip(t *testing.T) {
	m := NewMemory(utils.Discard(), memSecret)
	ctx := context.Background()
	bearer := memBearer(t, "u1")

	polls, err := m.ListPolls(ctx, bearer)
	require.NoError(t, err)
	assert.Len(t, polls, len(FallbackPolls()))

	created, err := m.CreatePoll(ctx, bearer, entity.NewPoll("Test", []string{"A", "B"}))
	require.NoError(t, err)

	polls, err = m.ListPolls(ctx, bearer)
	require.NoError(t, err)
	got, ok := entity.FindPoll(polls, created.Token)
	require.True(t, ok)
	assert.Equal(t, "Test", got.Name)
	assert.True(t, got.Owner)
	assert.Len(t, got.Options, 2)
}

func TestMemory_VoteOncePerVoter(t *testing.T) {
	m := NewMemory(utils.Discard(), memSecret)
	ctx := context.Background()
	bearer := memBearer(t, "u1")

	polls, err := m.ListPolls(ctx, bearer)
	require.NoError(t, err)
	token := polls[0].Token

	before, err := m.FetchResults(ctx, bearer, token)
	require.NoError(t, err)

	_, err = m.SubmitVote(ctx, bearer, token, 1)
	require.NoError(t, err)
	afterFirst, err := m.FetchResults(ctx, bearer, token)
	require.NoError(t, err)
	assert.Equal(t, before.Total()+1, afterFirst.Total())

	// a fresh bearer for the same subject is still the same voter
	_, err = m.SubmitVote(ctx, memBearer(t, "u1"), token, 2)
	assert.ErrorIs(t, err, apperr.ErrAlreadyVoted)

	afterSecond, err := m.FetchResults(ctx, bearer, token)
	require.NoError(t, err)
	assert.Equal(t, afterFirst, afterSecond)
}

func TestMemory_OwnerRules(t *testing.T) {
	m := NewMemory(utils.Discard(), memSecret)
	ctx := context.Background()
	owner, stranger := memBearer(t, "owner"), memBearer(t, "stranger")

	created, err := m.CreatePoll(ctx, owner, entity.NewPoll("Mía", []string{"A", "B"}))
	require.NoError(t, err)

	created.Name = "Hack"
	_, err = m.UpdatePoll(ctx, stranger, created)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = m.DeletePoll(ctx, stranger, created.Token)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = m.DeletePoll(ctx, owner, created.Token)
	require.NoError(t, err)
	_, err = m.GetPoll(ctx, owner, created.Token)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMemory_InvalidBearer(t *testing.T) {
	m := NewMemory(utils.Discard(), memSecret)

	_, err := m.ListPolls(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperr.ErrCredentialExpired)
}
