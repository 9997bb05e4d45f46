package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/websocket"

	"github.com/ericogr/chimera-arena/internal/constants"
)

// ListCards returns the card catalog.
func (h *BattleHandler) ListCards(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Cards())
}

// ListCreatures returns the creature templates teams are built from.
func (h *BattleHandler) ListCreatures(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Creatures())
}

// ListLeaderboard returns the top players by wins.
func (h *BattleHandler) ListLeaderboard(c *gin.Context) {
	top, err := h.svc.Leaderboard(queryLimit(c))
	if err != nil {
		respondError(c, err, constants.ErrFailedFetchLeaderboard)
		return
	}
	respondRecords(c, top, constants.ErrFailedFetchLeaderboard)
}

// GetBattle returns the battle snapshot.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	b, err := h.svc.GetBattle(c.Param(constants.ParamBattleID))
	if err != nil {
		respondError(c, err, constants.ErrBattleNotFound)
		return
	}
	c.JSON(http.StatusOK, b)
}

// PlayerBattles lists the finished battles of an address, newest first.
func (h *BattleHandler) PlayerBattles(c *gin.Context) {
	recs, err := h.svc.History(c.Param(constants.ParamPlayerAddress), queryLimit(c))
	if err != nil {
		respondError(c, err, constants.ErrFailedFetchHistory)
		return
	}
	respondRecords(c, recs, constants.ErrFailedFetchHistory)
}

// PlayerStats returns the aggregate results of an address.
func (h *BattleHandler) PlayerStats(c *gin.Context) {
	st, err := h.svc.Stats(c.Param(constants.ParamPlayerAddress))
	if err != nil {
		respondError(c, err, constants.ErrFailedFetchStats)
		return
	}
	respondRecords(c, st, constants.ErrFailedFetchStats)
}

// BattleSocket upgrades to a websocket that receives the current snapshot
// followed by every event published for the battle. The snapshot is read
// after the subscription is registered.
func (h *BattleHandler) BattleSocket(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	id := c.Param(constants.ParamBattleID)
	b, err := h.svc.GetBattle(id)
	if err != nil {
		respondError(c, err, constants.ErrBattleNotFound)
		return
	}
	if b.SideIndex(callerAddress(c)) < 0 {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotParticipant})
		return
	}
	websocket.Handler(func(conn *websocket.Conn) {
		h.hub.Serve(id, conn, func() (any, error) {
			return h.svc.GetBattle(id)
		})
	}).ServeHTTP(c.Writer, c.Request)
}
