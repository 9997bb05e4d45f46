package engine

import (
	"fmt"

	"github.com/ericogr/chimera-arena/internal/game"
)

// CardLookup resolves card identifiers to immutable card definitions.
type CardLookup interface {
	Card(id string) (*game.Card, bool)
}

// CardMap is a CardLookup over a plain map, handy for tests and static
// catalogs.
type CardMap map[string]game.Card

func (m CardMap) Card(id string) (*game.Card, bool) {
	c, ok := m[id]
	if !ok {
		return nil, false
	}
	return &c, true
}

// --- Round context -----------------------------------------------------
type roundContext struct {
	b      *game.Battle
	cards  CardLookup
	result *game.RoundResult
}

func newRoundContext(b *game.Battle, cards CardLookup) *roundContext {
	return &roundContext{
		b:     b,
		cards: cards,
		result: &game.RoundResult{
			Round:      b.Round,
			Events:     make([]game.ActionEvent, 0, 6),
			Summary:    make([]string, 0, 16),
			Eliminated: game.EliminatedNone,
		},
	}
}

func (rc *roundContext) add(msg string) { rc.result.Summary = append(rc.result.Summary, msg) }

func (rc *roundContext) addf(format string, args ...any) { rc.add(fmt.Sprintf(format, args...)) }

func (rc *roundContext) anomaly(order, side int, reason string) {
	rc.result.Anomalies = append(rc.result.Anomalies, game.Anomaly{Order: order, Side: side, Reason: reason})
	rc.addf("Action #%d of side %d was rolled back: %s", order, side+1, reason)
}

// combatant returns the combatant at (side, index) or nil.
func (rc *roundContext) combatant(side, index int) *game.Combatant {
	if side < 0 || side > 1 {
		return nil
	}
	team := rc.b.Sides[side].Team
	if index < 0 || index >= len(team) {
		return nil
	}
	return &team[index]
}

func displayName(c *game.Combatant) string {
	if c == nil {
		return ""
	}
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

func sideLabel(b *game.Battle, side int) string {
	if b.Sides[side].AI {
		return "AI"
	}
	return b.Sides[side].Address
}
