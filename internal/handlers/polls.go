package handlers

import (
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/gin-gonic/gin"
	"net/http"
	"strings"
)

type PollsHandler struct {
	session Session
}

type CreatePollRequest struct {
	Name    string   `json:"name" binding:"required"`
	Options []string `json:"options" binding:"required,min=2"`
}

type UpdateOptionRequest struct {
	Selection int    `json:"selection" binding:"required,min=1"`
	Label     string `json:"label" binding:"required"`
}

type UpdatePollRequest struct {
	Name    string                `json:"name" binding:"required"`
	Active  bool                  `json:"active"`
	Options []UpdateOptionRequest `json:"options" binding:"required,min=2,dive"`
}

type VoteRequest struct {
	Selection int `json:"selection" binding:"required,min=1"`
}

func NewPollsHandler(session Session) *PollsHandler {
	return &PollsHandler{session: session}
}

func (h *PollsHandler) Refresh(c *gin.Context) {
	state, err := h.session.Refresh(c.Request.Context())
	respond(c, state, err)
}

func (h *PollsHandler) CreatePoll(c *gin.Context) {
	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	state, err := h.session.CreatePoll(c.Request.Context(), req.Name, req.Options)
	respond(c, state, err)
}

func (h *PollsHandler) UpdatePoll(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid poll token"})
		return
	}

	var req UpdatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	poll := entity.Poll{Token: token, Name: req.Name, Active: req.Active, Owner: true}
	for _, o := range req.Options {
		poll.Options = append(poll.Options, entity.Option{Selection: o.Selection, Label: o.Label})
	}

	state, err := h.session.UpdatePoll(c.Request.Context(), poll)
	respond(c, state, err)
}

func (h *PollsHandler) DeletePoll(c *gin.Context) {
	state, err := h.session.DeletePoll(c.Request.Context(), c.Param("token"))
	respond(c, state, err)
}

func (h *PollsHandler) Vote(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	state, err := h.session.SubmitVote(c.Request.Context(), c.Param("token"), req.Selection)
	respond(c, state, err)
}

func (h *PollsHandler) Results(c *gin.Context) {
	state, err := h.session.FetchResults(c.Request.Context(), c.Param("token"))
	respond(c, state, err)
}
