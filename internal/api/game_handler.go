package api

import (
	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/notify"
	"github.com/ericogr/chimera-arena/internal/service"
)

// CatalogReader lists the reference data served by the public endpoints.
type CatalogReader interface {
	Cards() []game.Card
	Creatures() []game.CreatureTemplate
}

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	svc     *service.BattleService
	catalog CatalogReader
	hub     *notify.Hub
}

// NewBattleHandler creates a BattleHandler. hub may be nil, in which case
// the websocket endpoint answers 404.
func NewBattleHandler(svc *service.BattleService, catalog CatalogReader, hub *notify.Hub) *BattleHandler {
	return &BattleHandler{svc: svc, catalog: catalog, hub: hub}
}
