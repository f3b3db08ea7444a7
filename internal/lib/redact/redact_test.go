package redact

import (
	"github.com/stretchr/testify/assert"
	"strings"
	"testing"
)

func TestToken(t *testing.T) {
	a := Token("jwt", "eyJhbGciOiJIUzI1NiJ9.secret.sig")

	assert.Equal(t, "jwt", a.Key)
	assert.True(t, strings.HasPrefix(a.Value.String(), "sha256:"))
	assert.NotContains(t, a.Value.String(), "secret")
	assert.Equal(t, a.Value.String(), Token("jwt", "eyJhbGciOiJIUzI1NiJ9.secret.sig").Value.String())
	assert.Equal(t, "", Token("jwt", "").Value.String())
}
