package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/logging"
)

// NewRouter wires every route under /api.
func NewRouter(h *BattleHandler, signer *SessionSigner) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteHealth, Health)
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteCards, h.ListCards)
		apiRoutes.GET(constants.RouteCreatures, h.ListCreatures)
		apiRoutes.GET(constants.RouteLeaderboard, h.ListLeaderboard)

		protected := apiRoutes.Group("")
		protected.Use(AuthRequired(signer))

		protected.POST(constants.RouteBattles, h.CreateBattle)
		protected.GET(constants.RouteBattleByID, h.GetBattle)
		protected.POST(constants.RouteBattleMoves, h.SubmitMoves)
		protected.POST(constants.RouteBattleForfeit, h.Forfeit)
		protected.GET(constants.RouteBattleSocket, h.BattleSocket)
		protected.GET(constants.RoutePlayerBattles, h.PlayerBattles)
		protected.GET(constants.RoutePlayerStats, h.PlayerStats)
	}
	return router
}

// requestLogger logs one line per request through the structured logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := logging.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if addr := callerAddress(c); addr != "" {
			fields[constants.LogFieldAddress] = addr
		}
		if c.Writer.Status() >= 500 {
			logging.Warn("request failed", fields)
			return
		}
		logging.Debug("request served", fields)
	}
}
