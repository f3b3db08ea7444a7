package entity

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPoll = errors.New("invalid poll")

type Poll struct {
	Token   string   `json:"token"`
	Name    string   `json:"name"`
	Active  bool     `json:"active"`
	Owner   bool     `json:"owner"`
	Options []Option `json:"options"`
}

// Option is a poll choice. Selection is the wire identifier used for voting
// and stays stable regardless of the option's position in the slice.
type Option struct {
	Selection int    `json:"selection"`
	Label     string `json:"label"`
	Votes     int    `json:"votes"`
}

// NewPoll builds a draft poll assigning selection codes 1..N in label order.
func NewPoll(name string, labels []string) Poll {
	options := make([]Option, 0, len(labels))
	for i, label := range labels {
		options = append(options, Option{Selection: i + 1, Label: strings.TrimSpace(label)})
	}
	return Poll{Name: strings.TrimSpace(name), Active: true, Owner: true, Options: options}
}

func (p Poll) Option(selection int) (Option, bool) {
	for _, o := range p.Options {
		if o.Selection == selection {
			return o, true
		}
	}
	return Option{}, false
}

// TotalVotes sums the option counts of the snapshot.
func (p Poll) TotalVotes() int {
	total := 0
	for _, o := range p.Options {
		total += o.Votes
	}
	return total
}

func (p Poll) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidPoll)
	}
	if len(p.Options) < 2 {
		return fmt.Errorf("%w: at least two options are required", ErrInvalidPoll)
	}
	seen := make(map[int]struct{}, len(p.Options))
	for _, o := range p.Options {
		if o.Selection <= 0 {
			return fmt.Errorf("%w: selection code %d must be positive", ErrInvalidPoll, o.Selection)
		}
		if _, dup := seen[o.Selection]; dup {
			return fmt.Errorf("%w: duplicate selection code %d", ErrInvalidPoll, o.Selection)
		}
		if strings.TrimSpace(o.Label) == "" {
			return fmt.Errorf("%w: option %d has no label", ErrInvalidPoll, o.Selection)
		}
		seen[o.Selection] = struct{}{}
	}
	return nil
}

func (p Poll) Clone() Poll {
	c := p
	c.Options = append([]Option(nil), p.Options...)
	return c
}

// WithTally returns a copy whose option counts are recomputed from t.
// Options missing from the tally count zero.
func (p Poll) WithTally(t Tally) Poll {
	c := p.Clone()
	for i := range c.Options {
		c.Options[i].Votes = t.Count(c.Options[i].Label)
	}
	return c
}

func ClonePolls(polls []Poll) []Poll {
	if polls == nil {
		return nil
	}
	out := make([]Poll, len(polls))
	for i, p := range polls {
		out[i] = p.Clone()
	}
	return out
}

func FindPoll(polls []Poll, token string) (Poll, bool) {
	for _, p := range polls {
		if p.Token == token {
			return p, true
		}
	}
	return Poll{}, false
}
