package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/service"
)

// CreateBattlePayload is what matchmaking posts to open a battle. The
// caller always plays the first side.
type CreateBattlePayload struct {
	Mode      game.Mode `json:"mode"`
	StakeTier string    `json:"stake_tier"`
	Creatures []string  `json:"creatures"`
	Opponent  struct {
		Address   string   `json:"address"`
		AI        bool     `json:"ai"`
		Creatures []string `json:"creatures"`
	} `json:"opponent"`
}

// CreateBattle opens a battle between the caller and the opponent.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req CreateBattlePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	b, err := h.svc.CreateBattle(c.Request.Context(), service.CreateRequest{
		Mode:      req.Mode,
		StakeTier: req.StakeTier,
		Sides: [2]service.SideRequest{
			{Address: callerAddress(c), Creatures: req.Creatures},
			{Address: req.Opponent.Address, AI: req.Opponent.AI, Creatures: req.Opponent.Creatures},
		},
	})
	if err != nil {
		respondError(c, err, constants.ErrFailedCreateBattle)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// Forfeit concedes the battle on behalf of the caller.
func (h *BattleHandler) Forfeit(c *gin.Context) {
	b, err := h.svc.Forfeit(c.Request.Context(), c.Param(constants.ParamBattleID), callerAddress(c))
	if err != nil {
		respondError(c, err, constants.ErrFailedForfeit)
		return
	}
	c.JSON(http.StatusOK, b)
}
