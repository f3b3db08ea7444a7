package redis

import (
	"github.com/14kear/online_voting/vote-client/internal/storage/storagetest"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"os"
	"testing"
)

// Runs only against a real server: REDIS_ADDR=localhost:6379 go test ./...
func TestStorage_Contract(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	s, err := New(addr, os.Getenv("REDIS_PASSWORD"), 0, "vote-client-test:"+gofakeit.LetterN(8)+":")
	require.NoError(t, err)
	defer s.Close()

	storagetest.Run(t, s)
}

func TestNew_Unreachable(t *testing.T) {
	_, err := New("127.0.0.1:1", "", 0, "x:")
	require.Error(t, err)
}
