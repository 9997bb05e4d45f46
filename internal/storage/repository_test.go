package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/chimera-arena/internal/game"
)

var testCards = []game.Card{
	{ID: "claw", Name: "Claw", Element: game.ElementNeutral, EnergyCost: 1, AttackModifier: 1,
		Effects: []game.CardEffect{{Kind: game.EffectDamage, Target: game.TargetSingleEnemy}}},
	{ID: "wall", Name: "Wall", Element: game.ElementEarth, EnergyCost: 1, DefenseModifier: 0.5,
		Effects: []game.CardEffect{{Kind: game.EffectShield, Magnitude: 10, Target: game.TargetSelf}}},
}

var testCreatures = []game.CreatureTemplate{
	{TemplateID: "fox", Name: "Fox", Elements: []game.Element{game.ElementFire}, HitPoints: 50, Attack: 10, Defense: 5, Speed: 3, Energy: 3, Deck: []string{"claw"}},
	{TemplateID: "golem", Name: "Golem", Elements: []game.Element{game.ElementEarth}, HitPoints: 90, Attack: 8, Defense: 20, Speed: 1, Energy: 3, Deck: []string{"claw", "wall"}},
}

func openTestRepo(t *testing.T) Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := OpenAndMigrate(dsn, testCards, testCreatures)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewSQLiteRepository(db)
}

func TestCatalogSeeding(t *testing.T) {
	repo := openTestRepo(t)

	cards, err := repo.GetCards()
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "claw", cards[0].ID)
	assert.Equal(t, game.TargetSingleEnemy, cards[0].Effects[0].Target)

	c, err := repo.GetCardByID("wall")
	require.NoError(t, err)
	assert.Equal(t, 0.5, c.DefenseModifier)

	_, err = repo.GetCardByID("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	golem, err := repo.GetCreatureByID("golem")
	require.NoError(t, err)
	assert.Equal(t, []string{"claw", "wall"}, golem.Deck)
	assert.Equal(t, []game.Element{game.ElementEarth}, golem.Elements)

	_, err = repo.GetCreatureByID("dragon")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedingIsIdempotent(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := OpenAndMigrate(dsn, testCards, testCreatures)
	require.NoError(t, err)
	changed := append([]game.Card(nil), testCards...)
	changed[0].EnergyCost = 2
	db2, err := OpenAndMigrate(dsn, changed, testCreatures)
	require.NoError(t, err)

	repo := NewSQLiteRepository(db2)
	cards, err := repo.GetCards()
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, 2, cards[0].EnergyCost)
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func finishedBattle(id, winner string, draw bool, reason game.EndReason, at time.Time) *game.Battle {
	b := &game.Battle{
		ID:     id,
		Mode:   game.ModePvP,
		Round:  4,
		Sides:  [2]game.Side{{Address: "0xaaa"}, {Address: "0xbbb"}},
		Status: game.StatusActive,
	}
	b.Finish(winner, draw, reason, at)
	return b
}

func TestStatsAndLeaderboard(t *testing.T) {
	repo := openTestRepo(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpdateStatsOnBattleEnd(finishedBattle("b1", "0xaaa", false, game.EndElimination, at)))
	require.NoError(t, repo.UpdateStatsOnBattleEnd(finishedBattle("b2", "0xaaa", false, game.EndForfeit, at)))
	require.NoError(t, repo.UpdateStatsOnBattleEnd(finishedBattle("b3", "", true, game.EndElimination, at)))

	a, err := repo.GetStatsByAddress("0xAAA")
	require.NoError(t, err)
	assert.Equal(t, 3, a.BattlesPlayed)
	assert.Equal(t, 2, a.Wins)
	assert.Equal(t, 1, a.Draws)

	b, err := repo.GetStatsByAddress("0xbbb")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Losses)
	assert.Equal(t, 1, b.Forfeits)

	unknown, err := repo.GetStatsByAddress("0xccc")
	require.NoError(t, err)
	assert.Zero(t, unknown.BattlesPlayed)

	top, err := repo.GetTopPlayers(5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "0xaaa", top[0].Address)
}

func TestStatsSkipAISide(t *testing.T) {
	repo := openTestRepo(t)
	b := finishedBattle("b1", "0xaaa", false, game.EndElimination, time.Now())
	b.Sides[1] = game.Side{Address: "ai:b1", AI: true}
	require.NoError(t, repo.UpdateStatsOnBattleEnd(b))

	top, err := repo.GetTopPlayers(10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "0xaaa", top[0].Address)
}

func TestBattleHistory(t *testing.T) {
	repo := openTestRepo(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := &game.BattleRecord{
			BattleID:   fmt.Sprintf("b%d", i),
			Side1:      "0xaaa",
			Side2:      "0xbbb",
			MatchupKey: "0xaaa_0xbbb",
			Mode:       game.ModePvP,
			Winner:     "0xaaa",
			EndReason:  game.EndElimination,
			Rounds:     i + 1,
			StartedAt:  base,
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
			FinalRound: &game.RoundResult{Round: i + 1, Eliminated: game.EliminatedSide2},
		}
		require.NoError(t, repo.SaveBattleRecord(rec))
	}
	// saving again updates in place
	require.NoError(t, repo.SaveBattleRecord(&game.BattleRecord{BattleID: "b0", Side1: "0xaaa", Side2: "0xbbb", Rounds: 9, FinishedAt: base}))

	list, err := repo.ListBattlesByParticipant("0xBBB", 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "b2", list[0].BattleID)
	require.NotNil(t, list[0].FinalRound)
	assert.Equal(t, game.EliminatedSide2, list[0].FinalRound.Eliminated)
	assert.Equal(t, 9, list[2].Rounds)

	none, err := repo.ListBattlesByParticipant("0xccc", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
