package http

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/14kear/online_voting/vote-client/internal/app/ws"
	"github.com/14kear/online_voting/vote-client/internal/clients/authapi"
	"github.com/14kear/online_voting/vote-client/internal/clients/voteapi"
	"github.com/14kear/online_voting/vote-client/internal/config"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"github.com/14kear/online_voting/vote-client/internal/handlers"
	"github.com/14kear/online_voting/vote-client/internal/identity/demo"
	"github.com/14kear/online_voting/vote-client/internal/middleware"
	"github.com/14kear/online_voting/vote-client/internal/services/session"
	"github.com/14kear/online_voting/vote-client/internal/services/tokens"
	"github.com/14kear/online_voting/vote-client/internal/storage/memory"
	"github.com/14kear/online_voting/vote-client/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const (
	testSecret    = "test-secret"
	testReturnURL = "http://localhost:5173/"
	testOrigin    = "http://localhost:5173"
)

type response struct {
	State entity.State `json:"state"`
	Error string       `json:"error"`
	Kind  string       `json:"kind"`
}

func newTestApp(t *testing.T) *App {
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := utils.Discard()
	store := tokens.New(log, memory.New())
	idp := demo.New(log, store, testSecret, testReturnURL)

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	o := session.New(
		log,
		config.SessionConfig{ResultDisplay: 20 * time.Millisecond, RedirectFailSafe: time.Minute},
		idp,
		authapi.NewLocal(log, testSecret, time.Hour),
		voteapi.NewMemory(log, testSecret),
		store,
		hub,
	)
	t.Cleanup(o.Close)

	return NewApp(
		log,
		0,
		[]string{testOrigin},
		handlers.NewSessionHandler(ctx, log, o, hub, []string{testOrigin}),
		handlers.NewPollsHandler(o),
		handlers.NewOAuthHandler(log, idp, o, testReturnURL),
		middleware.NewAuthMiddleware(o).Middleware(),
	)
}

func call(t *testing.T, a *App, method, path string, body any) (int, response) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Engine().ServeHTTP(rec, req)

	var resp response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

func signIn(t *testing.T, a *App) entity.State {
	code, resp := call(t, a, http.MethodPost, "/api/session/sign-in", gin.H{"mode": "popup"})
	require.Equal(t, http.StatusOK, code, resp.Error)
	require.Equal(t, entity.PhaseReady, resp.State.Phase)
	return resp.State
}

func TestApp_Ping(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	a.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
}

func TestApp_InitWithoutSession(t *testing.T) {
	a := newTestApp(t)

	code, resp := call(t, a, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, entity.PhaseInitializing, resp.State.Phase)

	code, resp = call(t, a, http.MethodPost, "/api/session/init", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, entity.PhaseLoggedOut, resp.State.Phase)
	assert.Equal(t, entity.APIStatusAvailable, resp.State.APIStatus)
}

func TestApp_PrivateRoutesNeedSignIn(t *testing.T) {
	a := newTestApp(t)

	code, resp := call(t, a, http.MethodPost, "/api/polls/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "not signed in", resp.Error)
}

func TestApp_SignIn_InvalidMode(t *testing.T) {
	a := newTestApp(t)

	code, _ := call(t, a, http.MethodPost, "/api/session/sign-in", gin.H{"mode": "window"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestApp_VoteFlow(t *testing.T) {
	a := newTestApp(t)
	state := signIn(t, a)

	require.Equal(t, entity.DataSourceLive, state.DataSource)
	require.NotEmpty(t, state.Polls)
	poll := state.Polls[0]
	before := poll.Options[0].Votes

	code, resp := call(t, a, http.MethodPost, "/api/polls/"+poll.Token+"/vote", gin.H{"selection": poll.Options[0].Selection})
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Equal(t, entity.PhaseShowingResult, resp.State.Phase)
	assert.True(t, resp.State.HasVoted(poll.Token))
	assert.Equal(t, before+1, resp.State.Polls[0].Options[0].Votes)

	require.Eventually(t, func() bool {
		_, r := call(t, a, http.MethodGet, "/api/session", nil)
		return r.State.Phase == entity.PhaseReady
	}, time.Second, 10*time.Millisecond)

	code, resp = call(t, a, http.MethodPost, "/api/polls/"+poll.Token+"/vote", gin.H{"selection": poll.Options[1].Selection})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "already_voted", resp.Kind)

	code, resp = call(t, a, http.MethodGet, "/api/polls/"+poll.Token+"/results", nil)
	require.Equal(t, http.StatusOK, code, resp.Error)
	require.NotNil(t, resp.State.Results)
	assert.Equal(t, before+1, resp.State.Results.Count(poll.Options[0].Label))
}

func TestApp_CreatePoll(t *testing.T) {
	a := newTestApp(t)
	state := signIn(t, a)

	code, _ := call(t, a, http.MethodPost, "/api/polls", gin.H{"name": "Solo una", "options": []string{"A"}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp := call(t, a, http.MethodPost, "/api/polls", gin.H{"name": "Ciclovías", "options": []string{"Sí", "No"}})
	require.Equal(t, http.StatusOK, code, resp.Error)
	require.Len(t, resp.State.Polls, len(state.Polls)+1)

	var created entity.Poll
	for _, p := range resp.State.Polls {
		if p.Name == "Ciclovías" {
			created = p
		}
	}
	require.NotEmpty(t, created.Token)
	assert.True(t, created.Owner)

	code, resp = call(t, a, http.MethodDelete, "/api/polls/"+created.Token, nil)
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Len(t, resp.State.Polls, len(state.Polls))
}

func TestApp_DeleteForeignPoll_Forbidden(t *testing.T) {
	a := newTestApp(t)
	state := signIn(t, a)

	code, resp := call(t, a, http.MethodDelete, "/api/polls/"+state.Polls[0].Token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", resp.Kind)
	require.NotNil(t, resp.State.Error)
	assert.Equal(t, state.Polls[0].Token, resp.State.Error.PollToken)
}

func TestApp_RedirectSignIn(t *testing.T) {
	a := newTestApp(t)

	code, resp := call(t, a, http.MethodPost, "/api/session/sign-in", gin.H{"mode": "redirect"})
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.True(t, resp.State.PendingRedirect)
	assert.Equal(t, testReturnURL, resp.State.RedirectURL)

	code, resp = call(t, a, http.MethodPost, "/api/session/init", nil)
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Equal(t, entity.PhaseReady, resp.State.Phase)
	require.NotNil(t, resp.State.User)
	assert.Equal(t, "Usuario Demo", resp.State.User.DisplayName)
}

func TestApp_OAuthCallback_UnknownState(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/oauth/callback?state=nope&code=x", nil)
	rec := httptest.NewRecorder()
	a.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApp_NavigateAndDarkMode(t *testing.T) {
	a := newTestApp(t)
	state := signIn(t, a)

	code, resp := call(t, a, http.MethodPost, "/api/session/navigate", gin.H{"screen": "voting-detail", "pollToken": state.Polls[1].Token})
	require.Equal(t, http.StatusOK, code, resp.Error)
	require.NotNil(t, resp.State.Selected)
	assert.Equal(t, state.Polls[1].Token, resp.State.Selected.Token)

	code, resp = call(t, a, http.MethodPost, "/api/session/navigate", gin.H{"screen": "nowhere"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = call(t, a, http.MethodPost, "/api/session/dark-mode", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.State.DarkMode)
}

func TestApp_SignOut(t *testing.T) {
	a := newTestApp(t)
	signIn(t, a)

	code, resp := call(t, a, http.MethodPost, "/api/session/sign-out", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, entity.PhaseLoggedOut, resp.State.Phase)
	assert.Nil(t, resp.State.User)
	assert.Empty(t, resp.State.Polls)

	code, _ = call(t, a, http.MethodPost, "/api/polls/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestApp_Stream(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.Engine())
	t.Cleanup(srv.Close)

	header := http.Header{}
	header.Set("Origin", testOrigin)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/session/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	signIn(t, a)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg ws.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		require.Equal(t, ws.MsgSessionState, msg.Type)
		if msg.State.Phase == entity.PhaseReady {
			assert.True(t, msg.State.Identity)
			return
		}
	}
}

func TestApp_Stream_RejectsForeignOrigin(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.Engine())
	t.Cleanup(srv.Close)

	header := http.Header{}
	header.Set("Origin", "http://evil.test")
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/session/stream"
	_, _, err := websocket.DefaultDialer.Dial(url, header)
	assert.Error(t, err)
}
