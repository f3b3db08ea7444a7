// Package fakeapi serves the secondary backend's auth gateway and polls API
// from an httptest server for client tests.
package fakeapi

import (
	"github.com/14kear/online_voting/vote-client/internal/lib/jwt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

const (
	AppToken = "test-app-token"
	AppKey   = "test-app-key"
	Secret   = "fake-api-secret"
)

// Routes that accept a forced failure.
const (
	RouteLogin   = "login"
	RouteRedeem  = "redeem"
	RouteList    = "list"
	RouteGet     = "get"
	RouteCreate  = "create"
	RouteUpdate  = "update"
	RouteDelete  = "delete"
	RouteVote    = "vote"
	RouteResults = "results"
)

type Failure struct {
	Status int
	Detail string
	// Raw replaces the JSON problem body.
	Raw string
}

type option struct {
	Selection int    `json:"selection"`
	Choice    string `json:"choice"`
	votes     int
}

type poll struct {
	Token   string   `json:"token"`
	Name    string   `json:"name"`
	Active  *bool    `json:"active,omitempty"`
	Owner   bool     `json:"owner"`
	Options []option `json:"options"`
	owner   string
	voters  map[string]bool
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	failures    map[string]Failure
	calls       map[string]int
	pending     map[string]bool
	polls       []*poll
	bearerTTL   time.Duration
	lastIDToken string
}

func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		failures:  make(map[string]Failure),
		calls:     make(map[string]int),
		pending:   make(map[string]bool),
		bearerTTL: time.Hour,
	}

	r := gin.New()
	auth := r.Group("/auth")
	{
		auth.GET("/tokens/login", s.track(RouteLogin), s.login)
		auth.GET("/tokens/:token/jwt", s.track(RouteRedeem), s.redeem)
		auth.POST("/tokens/:token/jwt", s.track(RouteRedeem), s.redeem)
	}

	vote := r.Group("/vote", s.bearer)
	{
		vote.GET("/polls/", s.track(RouteList), s.list)
		vote.GET("/polls/:token", s.track(RouteGet), s.get)
		vote.POST("/polls/", s.track(RouteCreate), s.create)
		vote.PUT("/polls/", s.track(RouteUpdate), s.update)
		vote.DELETE("/polls/:token", s.track(RouteDelete), s.delete)
		vote.POST("/vote/election", s.track(RouteVote), s.vote)
		vote.GET("/vote/:token/results", s.track(RouteResults), s.results)
	}

	s.Server = httptest.NewServer(r)
	return s
}

// Fail forces route to answer with f until Recover is called.
func (s *Server) Fail(route string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = f
}

func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

func (s *Server) LastIDToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastIDToken
}

func (s *Server) SetBearerTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bearerTTL = ttl
}

// Bearer issues a token the server accepts for subject.
func (s *Server) Bearer(subject string) string {
	token, err := jwt.NewSigned(subject, "", Secret, time.Now(), time.Hour)
	if err != nil {
		panic(err)
	}
	return token
}

// Seed adds a poll owned by owner with the given labels and returns its token.
func (s *Server) Seed(owner, name string, labels ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &poll{Token: uuid.NewString(), Name: name, owner: owner, voters: make(map[string]bool)}
	for i, l := range labels {
		p.Options = append(p.Options, option{Selection: i + 1, Choice: l})
	}
	s.polls = append(s.polls, p)
	return p.Token
}

// Votes returns the count recorded for selection of poll token.
func (s *Server) Votes(token string, selection int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.polls {
		if p.Token != token {
			continue
		}
		for _, o := range p.Options {
			if o.Selection == selection {
				return o.votes
			}
		}
	}
	return 0
}

func (s *Server) track(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.calls[route]++
		f, failing := s.failures[route]
		s.mu.Unlock()

		if !failing {
			c.Next()
			return
		}
		if f.Raw != "" {
			c.String(f.Status, f.Raw)
		} else {
			c.JSON(f.Status, gin.H{"detail": f.Detail})
		}
		c.Abort()
	}
}

func (s *Server) bearer(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "missing bearer"})
		return
	}
	sub, err := jwt.Subject(token, Secret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid bearer"})
		return
	}
	c.Set("subject", sub)
	c.Next()
}

func (s *Server) login(c *gin.Context) {
	if c.GetHeader("X-API-TOKEN") != AppToken || c.GetHeader("X-API-KEY") != AppKey {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "bad app credentials"})
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.pending[token] = true
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"redirectUrl": "https://example.test/login?token=" + token,
		"created":     time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) redeem(c *gin.Context) {
	token := c.Param("token")

	idToken := c.GetHeader("X-ID-TOKEN")
	if c.Request.Method == http.MethodPost {
		var body struct {
			IDToken string `json:"idToken"`
		}
		if err := c.ShouldBindJSON(&body); err == nil && body.IDToken != "" {
			idToken = body.IDToken
		}
	}

	s.mu.Lock()
	ok := s.pending[token]
	delete(s.pending, token)
	s.lastIDToken = idToken
	ttl := s.bearerTTL
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "unknown token"})
		return
	}
	if idToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "identity token required"})
		return
	}

	subject, found := jwt.SubjectUnverified(idToken)
	if !found {
		subject = idToken
	}
	signed, err := jwt.NewSigned(subject, "", Secret, time.Now(), ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jwt": signed, "created": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) view(p *poll, subject string) poll {
	v := *p
	v.Owner = p.owner == subject
	v.Options = append([]option(nil), p.Options...)
	return v
}

func (s *Server) find(token string) (*poll, int) {
	for i, p := range s.polls {
		if p.Token == token {
			return p, i
		}
	}
	return nil, -1
}

func (s *Server) list(c *gin.Context) {
	sub := c.GetString("subject")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]poll, 0, len(s.polls))
	for _, p := range s.polls {
		out = append(out, s.view(p, sub))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) get(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _ := s.find(c.Param("token"))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "poll not found"})
		return
	}
	c.JSON(http.StatusOK, s.view(p, c.GetString("subject")))
}

func (s *Server) create(c *gin.Context) {
	var body struct {
		Name    string   `json:"name"`
		Options []option `json:"options"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid poll"})
		return
	}

	sub := c.GetString("subject")
	p := &poll{Token: uuid.NewString(), Name: body.Name, Options: body.Options, owner: sub, voters: make(map[string]bool)}

	s.mu.Lock()
	s.polls = append(s.polls, p)
	v := s.view(p, sub)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, v)
}

func (s *Server) update(c *gin.Context) {
	var body poll
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid poll"})
		return
	}

	sub := c.GetString("subject")

	s.mu.Lock()
	defer s.mu.Unlock()

	p, _ := s.find(body.Token)
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "poll not found"})
		return
	}
	if p.owner != sub {
		c.JSON(http.StatusForbidden, gin.H{"detail": "not the owner"})
		return
	}
	p.Name = body.Name
	p.Active = body.Active
	p.Options = body.Options
	c.JSON(http.StatusOK, s.view(p, sub))
}

func (s *Server) delete(c *gin.Context) {
	sub := c.GetString("subject")

	s.mu.Lock()
	defer s.mu.Unlock()

	p, i := s.find(c.Param("token"))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "poll not found"})
		return
	}
	if p.owner != sub {
		c.JSON(http.StatusForbidden, gin.H{"detail": "not the owner"})
		return
	}
	s.polls = append(s.polls[:i], s.polls[i+1:]...)
	c.Status(http.StatusAccepted)
}

func (s *Server) vote(c *gin.Context) {
	var body struct {
		PollToken string `json:"pollToken"`
		Selection int    `json:"selection"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid vote"})
		return
	}

	sub := c.GetString("subject")

	s.mu.Lock()
	defer s.mu.Unlock()

	p, _ := s.find(body.PollToken)
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "poll not found"})
		return
	}
	if p.voters[sub] {
		c.JSON(http.StatusConflict, gin.H{"detail": "already voted"})
		return
	}
	for i := range p.Options {
		if p.Options[i].Selection == body.Selection {
			p.Options[i].votes++
			p.voters[sub] = true
			c.JSON(http.StatusOK, gin.H{"ok": true, "message": "vote registered"})
			return
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"detail": "unknown selection"})
}

func (s *Server) results(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _ := s.find(c.Param("token"))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "poll not found"})
		return
	}

	results := make([]gin.H, 0, len(p.Options))
	for _, o := range p.Options {
		results = append(results, gin.H{"choice": o.Choice, "total": o.votes})
	}
	c.JSON(http.StatusOK, gin.H{"name": p.Name, "results": results})
}
