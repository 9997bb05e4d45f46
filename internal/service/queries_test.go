package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/ericogr/chimera-arena/internal/game"
)

func TestStats(t *testing.T) {
	f := newFixture(t, Settings{})
	f.repo.stats = map[string]*game.PlayerStats{alice: {Address: alice, Wins: 3}}

	st, err := f.svc.Stats("0xAAA")
	if err != nil || st.Wins != 3 {
		t.Fatalf("unexpected stats %+v err=%v", st, err)
	}
	if _, err := f.svc.Stats(bob); !errors.Is(err, ErrStatsNotFound) {
		t.Fatalf("expected ErrStatsNotFound, got %v", err)
	}
	var verr *ValidationError
	if _, err := f.svc.Stats(" "); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t, Settings{})
	f.repo.top = []game.PlayerStats{{Address: alice, Wins: 5}, {Address: bob, Wins: 2}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			top, err := f.svc.Leaderboard(10)
			if err != nil || len(top) != 2 || top[0].Address != alice {
				t.Errorf("unexpected leaderboard %+v err=%v", top, err)
			}
		}()
	}
	wg.Wait()
	if f.repo.topCalls < 1 || f.repo.topCalls > 8 {
		t.Fatalf("unexpected query count %d", f.repo.topCalls)
	}
}

func TestClampLimit(t *testing.T) {
	if clampLimit(0) != defaultListLimit || clampLimit(500) != maxListLimit || clampLimit(7) != 7 {
		t.Fatalf("unexpected clamp results")
	}
}
