package voteapi

import "github.com/14kear/online_voting/vote-client/internal/entity"

type optionVO struct {
	Selection int    `json:"selection"`
	Choice    string `json:"choice"`
}

type pollVO struct {
	Token   string     `json:"token"`
	Name    string     `json:"name"`
	Active  *bool      `json:"active,omitempty"`
	Owner   *bool      `json:"owner,omitempty"`
	Options []optionVO `json:"options"`
}

type newPollVO struct {
	Name    string     `json:"name"`
	Options []optionVO `json:"options"`
}

type voteVO struct {
	PollToken string `json:"pollToken"`
	Selection int    `json:"selection"`
}

type ackVO struct {
	OK      *bool  `json:"ok"`
	Message string `json:"message"`
}

type resultVO struct {
	Choice string `json:"choice"`
	Total  int    `json:"total"`
}

type resultsVO struct {
	Name    string     `json:"name"`
	Results []resultVO `json:"results"`
}

func (p pollVO) toEntity() entity.Poll {
	poll := entity.Poll{
		Token: p.Token,
		Name:  p.Name,
		// a missing flag means active
		Active:  p.Active == nil || *p.Active,
		Owner:   p.Owner != nil && *p.Owner,
		Options: make([]entity.Option, 0, len(p.Options)),
	}
	for _, o := range p.Options {
		poll.Options = append(poll.Options, entity.Option{Selection: o.Selection, Label: o.Choice})
	}
	return poll
}

func optionsVO(options []entity.Option) []optionVO {
	out := make([]optionVO, 0, len(options))
	for _, o := range options {
		out = append(out, optionVO{Selection: o.Selection, Choice: o.Label})
	}
	return out
}
