package jwt

import (
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"time"
)

var ErrNoExpiry = errors.New("token has no exp claim")

// ExpiresAt reads the exp claim without verifying the signature.
// The bearer is issued by the secondary API and only it can verify it.
func ExpiresAt(token string) (time.Time, error) {
	claims, err := parseUnverified(token)
	if err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

func IssuedAt(token string) (time.Time, bool) {
	claims, err := parseUnverified(token)
	if err != nil {
		return time.Time{}, false
	}
	iat, err := claims.GetIssuedAt()
	if err != nil || iat == nil {
		return time.Time{}, false
	}
	return iat.Time, true
}

// SubjectUnverified reads the sub claim without verifying the signature.
func SubjectUnverified(token string) (string, bool) {
	claims, err := parseUnverified(token)
	if err != nil {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

func parseUnverified(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse jwt: %w", err)
	}
	return claims, nil
}

// NewSigned issues an HS256 bearer for subject. Used by the local exchange
// when no secondary API is reachable.
func NewSigned(subject, email, secret string, issuedAt time.Time, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)

	claims["sub"] = subject
	claims["email"] = email
	claims["iat"] = issuedAt.Unix()
	claims["exp"] = issuedAt.Add(ttl).Unix()

	return token.SignedString([]byte(secret))
}

// Subject validates token against secret and returns its subject.
func Subject(token, secret string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	return parsed.Claims.GetSubject()
}
