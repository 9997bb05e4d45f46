package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/game"
)

// MovesRequest is the body of a move submission. An empty list passes the
// round.
type MovesRequest struct {
	Actions []game.BattleAction `json:"actions"`
}

// SubmitMoves stores the caller's moves for the current round.
func (h *BattleHandler) SubmitMoves(c *gin.Context) {
	id := c.Param(constants.ParamBattleID)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return
	}
	var req MovesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	res, err := h.svc.SubmitMoves(c.Request.Context(), id, callerAddress(c), req.Actions)
	if err != nil {
		respondError(c, err, constants.ErrFailedSubmitMoves)
		return
	}
	c.JSON(http.StatusOK, res)
}
