// Package storagetest holds the behaviour every key-value backend must share.
package storagetest

import (
	"context"
	"github.com/14kear/online_voting/vote-client/internal/storage"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Run exercises kv with the shared contract.
func Run(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := kv.Get(ctx, "missing-"+gofakeit.UUID())
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		key := "key-" + gofakeit.UUID()
		value := []byte(gofakeit.Sentence(5))

		require.NoError(t, kv.Set(ctx, key, value))

		got, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("overwrite", func(t *testing.T) {
		key := "key-" + gofakeit.UUID()

		require.NoError(t, kv.Set(ctx, key, []byte("first")))
		require.NoError(t, kv.Set(ctx, key, []byte("second")))

		got, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("returned value is a copy", func(t *testing.T) {
		key := "key-" + gofakeit.UUID()
		require.NoError(t, kv.Set(ctx, key, []byte("abc")))

		got, err := kv.Get(ctx, key)
		require.NoError(t, err)
		got[0] = 'z'

		again, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("delete many", func(t *testing.T) {
		a, b := "a-"+gofakeit.UUID(), "b-"+gofakeit.UUID()
		require.NoError(t, kv.Set(ctx, a, []byte("1")))
		require.NoError(t, kv.Set(ctx, b, []byte("2")))

		require.NoError(t, kv.Delete(ctx, a, b, "never-set"))

		_, err := kv.Get(ctx, a)
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
		_, err = kv.Get(ctx, b)
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	})
}
