package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ericogr/chimera-arena/internal/engine"
	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/notify"
	"github.com/ericogr/chimera-arena/internal/session"
	"github.com/ericogr/chimera-arena/internal/storage"
)

const (
	alice = "0xaaa"
	bob   = "0xbbb"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type testCatalog struct {
	engine.CardMap
	creatures map[string]game.CreatureTemplate
	down      error
}

func (c testCatalog) Available() error { return c.down }

func (c testCatalog) Creature(id string) (game.CreatureTemplate, error) {
	t, ok := c.creatures[id]
	if !ok {
		return game.CreatureTemplate{}, storage.ErrNotFound
	}
	return t, nil
}

func newTestCatalog() testCatalog {
	return testCatalog{
		CardMap: engine.CardMap{
			"strike": {ID: "strike", Name: "Strike", Element: game.ElementNeutral, EnergyCost: 1, AttackModifier: 1.0,
				Effects: []game.CardEffect{{Kind: game.EffectDamage, Target: game.TargetSingleEnemy}}},
		},
		creatures: map[string]game.CreatureTemplate{
			// one strike from a brute defeats a minnow
			"brute":  {TemplateID: "brute", Name: "Brute", Elements: []game.Element{game.ElementNeutral}, HitPoints: 20, Attack: 30, Speed: 10, Energy: 3, Deck: []string{"strike"}},
			"pup":    {TemplateID: "pup", Name: "Pup", Elements: []game.Element{game.ElementNeutral}, HitPoints: 100, Attack: 5, Speed: 1, Energy: 3, Deck: []string{"strike"}},
			"minnow": {TemplateID: "minnow", Name: "Minnow", Elements: []game.Element{game.ElementNeutral}, HitPoints: 10, Attack: 1, Speed: 1, Energy: 3, Deck: []string{"strike"}},
		},
	}
}

type mockRepo struct {
	mu          sync.Mutex
	records     []game.BattleRecord
	statsCalled int
	top         []game.PlayerStats
	topCalls    int
	stats       map[string]*game.PlayerStats
}

func (m *mockRepo) GetCards() ([]game.Card, error)                 { return nil, nil }
func (m *mockRepo) GetCardByID(string) (*game.Card, error)         { return nil, storage.ErrNotFound }
func (m *mockRepo) GetCreatures() ([]game.CreatureTemplate, error) { return nil, nil }
func (m *mockRepo) GetCreatureByID(string) (*game.CreatureTemplate, error) {
	return nil, storage.ErrNotFound
}
func (m *mockRepo) ListBattlesByParticipant(string, int) ([]game.BattleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]game.BattleRecord(nil), m.records...), nil
}

func (m *mockRepo) SaveBattleRecord(r *game.BattleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *r)
	return nil
}

func (m *mockRepo) UpdateStatsOnBattleEnd(*game.Battle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsCalled++
	return nil
}

func (m *mockRepo) GetStatsByAddress(addr string) (*game.PlayerStats, error) {
	if st, ok := m.stats[addr]; ok {
		return st, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepo) GetTopPlayers(int) ([]game.PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topCalls++
	return m.top, nil
}

type mockPublisher struct {
	mu    sync.Mutex
	kinds []notify.Kind
}

func (p *mockPublisher) Publish(_ context.Context, _ string, kind notify.Kind, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kinds = append(p.kinds, kind)
	return nil
}

func (p *mockPublisher) count(kind notify.Kind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, k := range p.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

type fixture struct {
	svc   *BattleService
	store *session.Store
	repo  *mockRepo
	pub   *mockPublisher
}

func newFixture(t *testing.T, cfg Settings) *fixture {
	t.Helper()
	if cfg.RoundTimeout == 0 {
		cfg.RoundTimeout = time.Minute
	}
	store := session.NewStore(session.Config{IdleTimeout: time.Hour, FinishedGrace: time.Minute})
	store.SetClock(func() time.Time { return testNow })
	f := &fixture{store: store, repo: &mockRepo{}, pub: &mockPublisher{}}
	f.svc = NewBattleService(store, newTestCatalog(), f.repo, f.pub, cfg)
	f.svc.SetClock(func() time.Time { return testNow })
	t.Cleanup(f.svc.Wait)
	return f
}

func (f *fixture) pvp(t *testing.T, team1, team2 []string) *game.Battle {
	t.Helper()
	b, err := f.svc.CreateBattle(context.Background(), CreateRequest{
		Mode:  game.ModePvP,
		Sides: [2]SideRequest{{Address: alice, Creatures: team1}, {Address: bob, Creatures: team2}},
	})
	if err != nil {
		t.Fatalf("create battle: %v", err)
	}
	return b
}

func strikeAt(target int) []game.BattleAction {
	return []game.BattleAction{{CombatantIndex: 0, CardID: "strike", TargetIndex: &target}}
}
