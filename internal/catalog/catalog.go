// Package catalog caches the immutable card and creature reference data so
// battle resolution never hits the database.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ericogr/chimera-arena/internal/dedupe"
	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/logging"
	"github.com/ericogr/chimera-arena/internal/storage"
)

var (
	ErrUnknownCreature = errors.New("unknown creature template")
	// ErrUnavailable is returned while the catalog cannot be loaded.
	ErrUnavailable = errors.New("catalog unavailable")
)

// Source is the subset of the repository the catalog reads from.
type Source interface {
	GetCards() ([]game.Card, error)
	GetCreatures() ([]game.CreatureTemplate, error)
}

var _ Source = (storage.Repository)(nil)

type snapshot struct {
	cards     map[string]game.Card
	creatures map[string]game.CreatureTemplate
}

// Catalog is safe for concurrent use. It satisfies engine.CardLookup.
type Catalog struct {
	src Source

	mu   sync.RWMutex
	snap *snapshot
}

func New(src Source) *Catalog {
	return &Catalog{src: src}
}

// Load fetches the catalog when it has not been loaded yet. Concurrent
// callers share a single fetch.
func (c *Catalog) Load() error {
	c.mu.RLock()
	loaded := c.snap != nil
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.Reload()
}

// Reload replaces the cached catalog with a fresh copy from the source.
func (c *Catalog) Reload() error {
	v, err, _ := dedupe.CatalogGroup.Do(fmt.Sprintf("catalog:%p", c), func() (interface{}, error) {
		cards, err := c.src.GetCards()
		if err != nil {
			return nil, fmt.Errorf("load cards: %w", err)
		}
		creatures, err := c.src.GetCreatures()
		if err != nil {
			return nil, fmt.Errorf("load creatures: %w", err)
		}
		s := &snapshot{
			cards:     make(map[string]game.Card, len(cards)),
			creatures: make(map[string]game.CreatureTemplate, len(creatures)),
		}
		for _, card := range cards {
			s.cards[card.ID] = card
		}
		for _, t := range creatures {
			s.creatures[t.TemplateID] = t
		}
		return s, nil
	})
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.snap = v.(*snapshot)
	c.mu.Unlock()
	return nil
}

// current returns the loaded snapshot. A failed Reload keeps the previous
// snapshot, so an error here means no catalog was ever loaded.
func (c *Catalog) current() (*snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	if err := c.Load(); err != nil {
		logging.Error("catalog unavailable", err, nil)
		return &snapshot{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, nil
}

// Available reports whether lookups are served from a loaded catalog.
func (c *Catalog) Available() error {
	_, err := c.current()
	return err
}

// Card returns a copy of the card with id.
func (c *Catalog) Card(id string) (*game.Card, bool) {
	s, _ := c.current()
	card, ok := s.cards[id]
	if !ok {
		return nil, false
	}
	card.Effects = append([]game.CardEffect(nil), card.Effects...)
	return &card, true
}

// Cards returns every card ordered by id.
func (c *Catalog) Cards() []game.Card {
	s, _ := c.current()
	out := make([]game.Card, 0, len(s.cards))
	for _, card := range s.cards {
		out = append(out, card)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Creature returns the template with id.
func (c *Catalog) Creature(id string) (game.CreatureTemplate, error) {
	s, err := c.current()
	if err != nil {
		return game.CreatureTemplate{}, err
	}
	t, ok := s.creatures[id]
	if !ok {
		return game.CreatureTemplate{}, fmt.Errorf("%w: %s", ErrUnknownCreature, id)
	}
	return t, nil
}

// Creatures returns every template ordered by id.
func (c *Catalog) Creatures() []game.CreatureTemplate {
	s, _ := c.current()
	out := make([]game.CreatureTemplate, 0, len(s.creatures))
	for _, t := range s.creatures {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TemplateID < out[j].TemplateID })
	return out
}
