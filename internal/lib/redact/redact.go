package redact

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// Token logs a short fingerprint of a secret instead of the secret itself.
func Token(key, token string) slog.Attr {
	if token == "" {
		return slog.String(key, "")
	}
	sum := sha256.Sum256([]byte(token))
	return slog.String(key, "sha256:"+hex.EncodeToString(sum[:4]))
}
