package routes

import (
	"github.com/14kear/online_voting/vote-client/internal/handlers"
	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(rg *gin.RouterGroup, handler *handlers.SessionHandler) {
	{
		rg.GET("", handler.GetState)
		rg.GET("/stream", handler.Stream)

		rg.POST("/init", handler.Init)
		rg.POST("/sign-in", handler.SignIn)
		rg.POST("/sign-out", handler.SignOut)
		rg.POST("/retry", handler.Retry)
		rg.POST("/navigate", handler.Navigate)
		rg.POST("/dark-mode", handler.ToggleDarkMode)
		rg.DELETE("/error", handler.ClearError)
	}
}

func RegisterPrivateRoutes(rg *gin.RouterGroup, session *handlers.SessionHandler, polls *handlers.PollsHandler) {
	{
		rg.POST("/session/exchange/retry", session.RetryExchange)

		rg.POST("/polls/refresh", polls.Refresh)
		rg.POST("/polls", polls.CreatePoll)
		rg.PUT("/polls/:token", polls.UpdatePoll)
		rg.DELETE("/polls/:token", polls.DeletePoll)
		rg.POST("/polls/:token/vote", polls.Vote)
		rg.GET("/polls/:token/results", polls.Results)
	}
}

func RegisterCallbackRoutes(rg *gin.RouterGroup, handler *handlers.OAuthHandler) {
	rg.GET("/callback", handler.Callback)
}
