package entity

import "time"

type Phase string

const (
	PhaseInitializing   Phase = "initializing"
	PhaseLoggedOut      Phase = "logged_out"
	PhaseAuthenticating Phase = "authenticating"
	PhaseReady          Phase = "ready"
	PhaseVotingInFlight Phase = "voting_in_flight"
	PhaseShowingResult  Phase = "showing_result"
	PhaseErrored        Phase = "errored"
)

type DataSource string

const (
	DataSourceNone     DataSource = ""
	DataSourceLive     DataSource = "live"
	DataSourceFallback DataSource = "fallback"
)

type APIStatus string

const (
	APIStatusChecking    APIStatus = "checking"
	APIStatusAvailable   APIStatus = "available"
	APIStatusUnavailable APIStatus = "unavailable"
	APIStatusError       APIStatus = "error"
)

type Screen string

const (
	ScreenLogin        Screen = "login"
	ScreenVotingList   Screen = "voting-list"
	ScreenVotingDetail Screen = "voting-detail"
	ScreenProfile      Screen = "profile"
	ScreenLoading      Screen = "loading"
	ScreenEmpty        Screen = "empty"
	ScreenSuccess      Screen = "success"
	ScreenError        Screen = "error"
)

func (s Screen) Valid() bool {
	switch s {
	case ScreenLogin, ScreenVotingList, ScreenVotingDetail, ScreenProfile,
		ScreenLoading, ScreenEmpty, ScreenSuccess, ScreenError:
		return true
	}
	return false
}

type Action string

const (
	ActionNone     Action = "none"
	ActionRetry    Action = "retry"
	ActionRedirect Action = "redirect"
	ActionBack     Action = "back"
	ActionReauth   Action = "reauth"
)

// Notice is a user-visible failure paired with the next step offered to the user.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Action  Action `json:"action"`
	// PollToken scopes inline notices (already voted, forbidden) to a poll.
	PollToken string `json:"pollToken,omitempty"`
}

// State is one immutable snapshot of the client session.
// Identity and Credential are independent: a user may be present while live
// data is unavailable.
type State struct {
	Phase      Phase            `json:"phase"`
	User       *User            `json:"user"`
	Identity   bool             `json:"identity"`
	Credential CredentialStatus `json:"credential"`
	DataSource DataSource       `json:"dataSource"`
	APIStatus  APIStatus        `json:"apiStatus"`
	Screen     Screen           `json:"screen"`
	Polls      []Poll           `json:"polls"`
	Selected   *Poll            `json:"selected,omitempty"`
	Results    *Tally           `json:"results,omitempty"`
	Error      *Notice          `json:"error,omitempty"`

	Loading              bool   `json:"loading"`
	Busy                 bool   `json:"busy"`
	PendingRedirect      bool   `json:"pendingRedirect"`
	RedirectURL          string `json:"redirectUrl,omitempty"`
	CanRetryWithRedirect bool   `json:"canRetryWithRedirect"`

	VotedPolls []string `json:"votedPolls"`
	DarkMode   bool     `json:"darkMode"`

	Version uint64    `json:"version"`
	Epoch   string    `json:"epoch"`
	At      time.Time `json:"at"`
}

// Clone returns a deep copy so snapshots handed out never alias internal state.
func (s State) Clone() State {
	c := s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	if s.Credential.ExpiresAt != nil {
		t := *s.Credential.ExpiresAt
		c.Credential.ExpiresAt = &t
	}
	c.Polls = ClonePolls(s.Polls)
	if s.Selected != nil {
		p := s.Selected.Clone()
		c.Selected = &p
	}
	if s.Results != nil {
		r := Tally{PollName: s.Results.PollName, Counts: append([]LabelCount(nil), s.Results.Counts...)}
		c.Results = &r
	}
	if s.Error != nil {
		n := *s.Error
		c.Error = &n
	}
	c.VotedPolls = append([]string(nil), s.VotedPolls...)
	return c
}

func (s State) HasVoted(pollToken string) bool {
	for _, t := range s.VotedPolls {
		if t == pollToken {
			return true
		}
	}
	return false
}
