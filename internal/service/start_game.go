package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/keys"
	"github.com/ericogr/chimera-arena/internal/logging"
	"github.com/ericogr/chimera-arena/internal/notify"
)

// SideRequest describes one side handed over by matchmaking. Creatures are
// creature template ids, in team order.
type SideRequest struct {
	Address   string   `json:"address"`
	AI        bool     `json:"ai"`
	Creatures []string `json:"creatures"`
}

// CreateRequest is everything needed to start a battle.
type CreateRequest struct {
	Mode      game.Mode      `json:"mode"`
	StakeTier string         `json:"stake_tier"`
	Sides     [2]SideRequest `json:"sides"`
}

func (s *BattleService) validateCreate(req *CreateRequest) error {
	if !req.Mode.Valid() {
		return invalid(fmt.Sprintf("unknown mode %q", req.Mode))
	}
	for i := range req.Sides {
		sd := &req.Sides[i]
		sd.Address = keys.NormalizeAddress(sd.Address)
		if len(sd.Creatures) == 0 || len(sd.Creatures) > s.cfg.TeamSize {
			return invalid(fmt.Sprintf("side %d must field between 1 and %d creatures", i+1, s.cfg.TeamSize))
		}
		if !sd.AI && (sd.Address == "" || keys.IsAI(sd.Address)) {
			return invalid(fmt.Sprintf("side %d needs a wallet address", i+1))
		}
	}
	switch req.Mode {
	case game.ModePvP:
		if req.Sides[0].AI || req.Sides[1].AI {
			return invalid("pvp battles need two human sides")
		}
		if req.Sides[0].Address == req.Sides[1].Address {
			return invalid("a player cannot battle themselves")
		}
	case game.ModePvE:
		if req.Sides[0].AI || !req.Sides[1].AI {
			return invalid("pve battles need a human first side and an AI second side")
		}
	}
	return nil
}

func (s *BattleService) buildTeam(side int, ids []string) ([]game.Combatant, error) {
	team := make([]game.Combatant, 0, len(ids))
	for i, id := range ids {
		t, err := s.catalog.Creature(strings.TrimSpace(id))
		if err != nil {
			return nil, invalid(err.Error())
		}
		team = append(team, t.NewCombatant(fmt.Sprintf("s%d-%d-%s", side+1, i, t.TemplateID)))
	}
	return team, nil
}

// CreateBattle builds both teams from creature templates, opens round 1 and
// registers the battle in the store. AI sides submit their first moves
// immediately.
func (s *BattleService) CreateBattle(ctx context.Context, req CreateRequest) (*game.Battle, error) {
	if err := s.validateCreate(&req); err != nil {
		return nil, err
	}
	if err := s.catalog.Available(); err != nil {
		return nil, err
	}
	now := s.now()
	b := &game.Battle{
		ID:        uuid.NewString(),
		Mode:      req.Mode,
		StakeTier: req.StakeTier,
		Round:     1,
		Status:    game.StatusActive,
		Phase:     game.PhaseAwaitingMoves,
		Message:   "The battle has started. Choose your actions.",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, side := range req.Sides {
		team, err := s.buildTeam(i, side.Creatures)
		if err != nil {
			return nil, err
		}
		addr := side.Address
		if side.AI {
			addr = keys.AIAddress(b.ID)
		}
		b.Sides[i] = game.Side{Address: addr, AI: side.AI, Team: team}
	}
	s.openRound(b, now)

	created, err := s.store.Create(b)
	if err != nil {
		return nil, err
	}
	logging.Info("battle created", logging.Fields{
		constants.LogFieldBattleID: created.ID,
		"mode":                     string(created.Mode),
		"side1":                    created.Sides[0].Address,
		"side2":                    created.Sides[1].Address,
	})
	// nobody knows the id yet, so no other change can be queued first
	s.enqueue(ctx, created, notify.KindStart)
	return created, nil
}
