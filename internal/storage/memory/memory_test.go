package memory

import (
	"context"
	"github.com/14kear/online_voting/vote-client/internal/storage"
	"github.com/14kear/online_voting/vote-client/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestStorage_Contract(t *testing.T) {
	storagetest.Run(t, New())
}

func TestStorage_Closed(t *testing.T) {
	s := New()
	require.NoError(t, s.Close())

	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, storage.ErrClosed)
	assert.ErrorIs(t, s.Set(context.Background(), "k", nil), storage.ErrClosed)
}
