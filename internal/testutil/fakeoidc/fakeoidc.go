// Package fakeoidc is a minimal OpenID Connect provider for tests: discovery,
// JWKS, and a token endpoint that enforces PKCE.
package fakeoidc

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"github.com/gin-gonic/gin"
	jwtGo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

const (
	ClientID     = "test-client"
	ClientSecret = "test-secret"
	keyID        = "test-key"
)

type User struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type grant struct {
	user      User
	challenge string
}

type Server struct {
	*httptest.Server

	key *rsa.PrivateKey

	mu         sync.Mutex
	codes      map[string]grant
	refresh    map[string]User
	idTokenTTL time.Duration
	failToken  int
}

func New() *Server {
	gin.SetMode(gin.TestMode)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}

	s := &Server{
		key:        key,
		codes:      make(map[string]grant),
		refresh:    make(map[string]User),
		idTokenTTL: time.Hour,
	}

	r := gin.New()
	r.GET("/.well-known/openid-configuration", s.discovery)
	r.GET("/keys", s.keys)
	r.POST("/token", s.token)

	s.Server = httptest.NewServer(r)
	return s
}

// Approve plays the user consenting on the authorization page and returns
// the code the provider would redirect back with.
func (s *Server) Approve(challenge string, user User) string {
	code := uuid.NewString()

	s.mu.Lock()
	s.codes[code] = grant{user: user, challenge: challenge}
	s.mu.Unlock()

	return code
}

// FailToken makes the token endpoint answer with status until reset with 0.
func (s *Server) FailToken(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failToken = status
}

func (s *Server) SetIDTokenTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idTokenTTL = ttl
}

func (s *Server) discovery(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"issuer":                                s.URL,
		"authorization_endpoint":                s.URL + "/authorize",
		"token_endpoint":                        s.URL + "/token",
		"jwks_uri":                              s.URL + "/keys",
		"response_types_supported":              []string{"code"},
		"subject_types_supported":               []string{"public"},
		"id_token_signing_alg_values_supported": []string{"RS256"},
		"code_challenge_methods_supported":      []string{"S256"},
	})
}

func (s *Server) keys(c *gin.Context) {
	pub := s.key.PublicKey
	c.JSON(http.StatusOK, gin.H{
		"keys": []gin.H{{
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"kid": keyID,
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	})
}

func (s *Server) token(c *gin.Context) {
	s.mu.Lock()
	fail := s.failToken
	s.mu.Unlock()
	if fail != 0 {
		c.JSON(fail, gin.H{"error": "server_error"})
		return
	}

	var user User
	switch c.PostForm("grant_type") {
	case "authorization_code":
		s.mu.Lock()
		g, ok := s.codes[c.PostForm("code")]
		delete(s.codes, c.PostForm("code"))
		s.mu.Unlock()

		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_grant"})
			return
		}
		sum := sha256.Sum256([]byte(c.PostForm("code_verifier")))
		if base64.RawURLEncoding.EncodeToString(sum[:]) != g.challenge {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_grant", "error_description": "pkce mismatch"})
			return
		}
		user = g.user
	case "refresh_token":
		s.mu.Lock()
		u, ok := s.refresh[c.PostForm("refresh_token")]
		s.mu.Unlock()

		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_grant"})
			return
		}
		user = u
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_grant_type"})
		return
	}

	idToken, err := s.sign(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	refresh := uuid.NewString()
	s.mu.Lock()
	s.refresh[refresh] = user
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"access_token":  uuid.NewString(),
		"token_type":    "Bearer",
		"expires_in":    3600,
		"refresh_token": refresh,
		"id_token":      idToken,
	})
}

func (s *Server) sign(u User) (string, error) {
	s.mu.Lock()
	ttl := s.idTokenTTL
	s.mu.Unlock()

	now := time.Now()
	token := jwtGo.NewWithClaims(jwtGo.SigningMethodRS256, jwtGo.MapClaims{
		"jti":     uuid.NewString(),
		"iss":     s.URL,
		"aud":     ClientID,
		"sub":     u.Subject,
		"email":   u.Email,
		"name":    u.Name,
		"picture": u.Picture,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	token.Header["kid"] = keyID
	return token.SignedString(s.key)
}
