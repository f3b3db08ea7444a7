package voteapi

import (
	"encoding/json"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/apperr"
	"net/http"
	"strings"
)

// Some backend versions report ownership and duplicate-vote failures as a
// plain 500; the message is the only signal left.
var (
	ownershipMarkers    = []string{"not the owner", "not owner", "permission", "permis", "forbidden", "propietario"}
	alreadyVotedMarkers = []string{"already voted", "ya vot", "duplicate", "duplicad"}
)

type problemVO struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Title   string `json:"title"`
}

func classify(status int, body []byte) error {
	msg := problemMessage(body)
	cause := fmt.Errorf("status %d: %s", status, msg)

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", apperr.ErrCredentialExpired, cause)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", apperr.ErrForbidden, cause)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", apperr.ErrAlreadyVoted, cause)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", apperr.ErrNotFound, cause)
	case http.StatusInternalServerError:
		return classifyMessage(msg, cause)
	}
	return cause
}

func classifyMessage(msg string, cause error) error {
	lower := strings.ToLower(msg)
	for _, m := range alreadyVotedMarkers {
		if strings.Contains(lower, m) {
			return fmt.Errorf("%w: %w", apperr.ErrAlreadyVoted, cause)
		}
	}
	for _, m := range ownershipMarkers {
		if strings.Contains(lower, m) {
			return fmt.Errorf("%w: %w", apperr.ErrForbidden, cause)
		}
	}
	return cause
}

func problemMessage(body []byte) string {
	var p problemVO
	if err := json.Unmarshal(body, &p); err == nil {
		for _, s := range []string{p.Detail, p.Message, p.Error, p.Title} {
			if s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(body))
}
