package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/ericogr/chimera-arena/internal/game"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestResolveRound_DamageScenario(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("a", 100, 50, 0, 10)},
		[]game.Combatant{mkCombatant("b", 100, 10, 20, 5)},
	)
	b.Sides[0].Pending = []game.BattleAction{act(0, "strike", idx(0))}
	b.Sides[0].Submitted = true
	b.Sides[1].Submitted = true

	res := ResolveRound(b, testCards, now)

	if got := b.Sides[1].Team[0].HP; got != 58 {
		t.Fatalf("expected hp 58, got %d", got)
	}
	if b.Round != 2 || b.Status != game.StatusActive || b.Phase != game.PhaseAwaitingMoves {
		t.Fatalf("unexpected state round=%d status=%s phase=%s", b.Round, b.Status, b.Phase)
	}
	if b.Sides[0].Pending != nil || b.Sides[0].Submitted || b.Sides[1].Submitted {
		t.Fatalf("expected submissions to be cleared")
	}
	if !res.Clean() || res.Eliminated != game.EliminatedNone {
		t.Fatalf("unexpected result: %+v", res)
	}
	if b.Sides[0].Team[0].Energy != b.Sides[0].Team[0].MaxEnergy {
		t.Fatalf("expected energy refilled at round end")
	}
	if b.LastRound != res {
		t.Fatalf("expected LastRound to hold the result")
	}
}

func TestResolveRound_SpeedOrder(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("slow", 40, 100, 0, 1)},
		[]game.Combatant{mkCombatant("fast", 40, 100, 0, 9)},
	)
	b.Sides[0].Pending = []game.BattleAction{act(0, "strike", idx(0))}
	b.Sides[1].Pending = []game.BattleAction{act(0, "strike", idx(0))}

	res := ResolveRound(b, testCards, now)

	if res.Events[0].Side != 1 {
		t.Fatalf("expected faster side to act first")
	}
	if res.Events[1].Skipped != skipDefeated {
		t.Fatalf("expected slower combatant to be skipped, got %+v", res.Events[1])
	}
	if b.Status != game.StatusFinished || b.Winner != "0xbbb" || b.EndReason != game.EndElimination {
		t.Fatalf("expected side 2 to win, got status=%s winner=%s", b.Status, b.Winner)
	}
}

func TestBuildPlans_TieBreakAlternates(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("a", 100, 10, 0, 5)},
		[]game.Combatant{mkCombatant("b", 100, 10, 0, 5)},
	)
	b.Sides[0].Pending = []game.BattleAction{act(0, "guard", nil)}
	b.Sides[1].Pending = []game.BattleAction{act(0, "guard", nil)}

	plans := newRoundContext(b, testCards).buildPlans()
	if plans[0].side != 0 {
		t.Fatalf("side 1 should win ties on odd rounds")
	}
	b.Round = 2
	plans = newRoundContext(b, testCards).buildPlans()
	if plans[0].side != 1 {
		t.Fatalf("side 2 should win ties on even rounds")
	}
}

func TestResolveRound_UsesPreRoundSpeed(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("a", 100, 10, 0, 8)},
		[]game.Combatant{mkCombatant("b", 100, 10, 0, 10), mkCombatant("d", 100, 10, 0, 5)},
	)
	b.Sides[0].Pending = []game.BattleAction{act(0, "guard", nil)}
	b.Sides[1].Pending = []game.BattleAction{act(0, "slow", idx(0)), act(1, "guard", nil)}

	res := ResolveRound(b, testCards, now)

	got := []int{res.Events[0].Speed, res.Events[1].Speed, res.Events[2].Speed}
	if !reflect.DeepEqual(got, []int{10, 8, 5}) {
		t.Fatalf("slowed combatant should keep its slot this round, got %v", got)
	}
	if b.Sides[0].Team[0].EffectiveSpeed() != 1 {
		t.Fatalf("expected slow to apply from the next round on")
	}
}

func TestResolveRound_StunnedActionSkippedAndCleared(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("a", 100, 50, 0, 10)},
		[]game.Combatant{mkCombatant("b", 100, 50, 0, 5)},
	)
	b.Sides[1].Team[0].AddStatus(game.StatusEffect{Kind: game.StatusStun, Remaining: 1})
	b.Sides[1].Pending = []game.BattleAction{act(0, "strike", idx(0))}

	res := ResolveRound(b, testCards, now)

	ev := res.Events[0]
	if ev.Skipped != skipStunned || ev.EnergySpent != 1 {
		t.Fatalf("expected stunned skip with energy paid, got %+v", ev)
	}
	if b.Sides[0].Team[0].HP != 100 {
		t.Fatalf("stunned action must not land")
	}
	stunned := &b.Sides[1].Team[0]
	if stunned.Stunned || len(stunned.StatusEffects) != 0 {
		t.Fatalf("expected stun to expire at round end, got %+v", stunned.StatusEffects)
	}
}

func TestResolveRound_StunAppliedMidRound(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("a", 100, 50, 0, 10)},
		[]game.Combatant{mkCombatant("b", 100, 50, 0, 5)},
	)
	b.Sides[0].Pending = []game.BattleAction{act(0, "daze", idx(0))}
	b.Sides[1].Pending = []game.BattleAction{act(0, "strike", idx(0))}

	res := ResolveRound(b, testCards, now)
	if res.Events[1].Skipped != skipStunned {
		t.Fatalf("expected slower stunned combatant to lose its action")
	}
	if b.Sides[1].Team[0].Stunned {
		t.Fatalf("one-round stun should be gone for the next round")
	}
}

func TestResolveRound_PreEliminatedSide(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("a", 100, 50, 0, 10)},
		[]game.Combatant{mkCombatant("b", 100, 50, 0, 5)},
	)
	b.Sides[1].Team[0].HP = 0
	b.Sides[0].Pending = []game.BattleAction{act(0, "strike", idx(0))}

	res := ResolveRound(b, testCards, now)

	if len(res.Events) != 0 {
		t.Fatalf("no action should be processed, got %d", len(res.Events))
	}
	if b.Status != game.StatusFinished || b.Winner != "0xaaa" || b.Round != 1 {
		t.Fatalf("unexpected state status=%s winner=%s round=%d", b.Status, b.Winner, b.Round)
	}
	if res.Eliminated != game.EliminatedSide2 {
		t.Fatalf("expected side2 eliminated, got %s", res.Eliminated)
	}
}

func TestResolveRound_Draw(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("a", 10, 50, 0, 5)},
		[]game.Combatant{mkCombatant("b", 10, 50, 0, 5)},
	)
	b.Sides[0].Pending = []game.BattleAction{act(0, "quake", nil)}
	b.Sides[1].Pending = []game.BattleAction{act(0, "quake", nil)}

	res := ResolveRound(b, testCards, now)
	if res.Eliminated != game.EliminatedSide2 || b.Winner != "0xaaa" {
		t.Fatalf("expected tie-break winner to strike first, got %s", res.Eliminated)
	}

	d := mkBattle(
		[]game.Combatant{mkCombatant("a", 10, 50, 0, 5)},
		[]game.Combatant{mkCombatant("b", 10, 50, 0, 5)},
	)
	d.Sides[0].Team[0].HP = 0
	d.Sides[1].Team[0].HP = 0
	res = ResolveRound(d, testCards, now)
	if !d.Draw || d.Winner != "" || res.Eliminated != game.EliminatedDraw {
		t.Fatalf("expected draw, got draw=%v winner=%q", d.Draw, d.Winner)
	}
}

func TestResolveRound_RedirectsFromFallenTarget(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("a", 100, 200, 0, 20), mkCombatant("c", 100, 50, 0, 10)},
		[]game.Combatant{mkCombatant("e0", 10, 10, 0, 1), mkCombatant("e1", 100, 10, 0, 1)},
	)
	b.Sides[0].Pending = []game.BattleAction{act(0, "strike", idx(0)), act(1, "strike", idx(0))}

	res := ResolveRound(b, testCards, now)

	second := res.Events[1].Outcomes[0]
	if !second.Redirected || second.Index != 1 {
		t.Fatalf("expected redirect to index 1, got %+v", second)
	}
	if got := b.Sides[1].Team[1].HP; got != 50 {
		t.Fatalf("expected e1 at 50 hp, got %d", got)
	}
	if b.Status != game.StatusActive {
		t.Fatalf("battle should continue")
	}
}

func TestResolveRound_RollsBackFailingAction(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("a", 100, 50, 0, 10)},
		[]game.Combatant{mkCombatant("b", 100, 50, 0, 5)},
	)
	b.Sides[0].Pending = []game.BattleAction{act(0, "broken", idx(0))}
	b.Sides[1].Pending = []game.BattleAction{act(0, "strike", idx(0))}

	res := ResolveRound(b, testCards, now)

	if res.Clean() || len(res.Anomalies) != 1 {
		t.Fatalf("expected one anomaly, got %+v", res.Anomalies)
	}
	if res.Events[0].Skipped != skipRolledBack || res.Events[0].EnergySpent != 0 {
		t.Fatalf("expected rolled back event, got %+v", res.Events[0])
	}
	if got := b.Sides[1].Team[0].HP; got != 100 {
		t.Fatalf("partial damage must be rolled back, hp=%d", got)
	}
	if got := b.Sides[0].Team[0].HP; got != 50 {
		t.Fatalf("later actions still resolve, expected 50 got %d", got)
	}
	if b.Status != game.StatusActive || b.Round != 2 {
		t.Fatalf("battle should continue after a rollback")
	}
}

func TestResolveRound_MissingCardIsAnomaly(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("a", 100, 50, 0, 10)},
		[]game.Combatant{mkCombatant("b", 100, 50, 0, 5)},
	)
	b.Sides[0].Pending = []game.BattleAction{act(0, "vanished", idx(0))}

	res := ResolveRound(b, testCards, now)
	if len(res.Anomalies) != 1 || res.Events[0].Skipped != skipRolledBack {
		t.Fatalf("expected anomaly for missing card, got %+v", res)
	}
}

func TestResolveRound_ClampForcesDraw(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("a", 100, 50, 0, 10)},
		[]game.Combatant{mkCombatant("b", 100, 50, 0, 5)},
	)
	b.Sides[0].Team[0].HP = 150

	res := ResolveRound(b, testCards, now)

	if b.Status != game.StatusFinished || !b.Draw || b.EndReason != game.EndAnomaly {
		t.Fatalf("expected anomaly draw, got status=%s draw=%v reason=%s", b.Status, b.Draw, b.EndReason)
	}
	if b.Sides[0].Team[0].HP != 100 || res.Clean() {
		t.Fatalf("expected hp clamped and anomaly reported")
	}
}

func TestResolveRound_Deterministic(t *testing.T) {
	base := mkBattle(
		[]game.Combatant{mkCombatant("a", 100, 40, 10, 7), mkCombatant("c", 80, 30, 5, 7)},
		[]game.Combatant{mkCombatant("b", 90, 35, 10, 7), mkCombatant("d", 120, 20, 15, 7)},
	)
	base.Sides[0].Pending = []game.BattleAction{act(1, "quake", nil), act(0, "frenzy", idx(1))}
	base.Sides[1].Pending = []game.BattleAction{act(0, "drain", idx(0)), act(1, "sap", idx(1))}

	first := base.Clone()
	second := base.Clone()
	ResolveRound(first, testCards, now)
	ResolveRound(second, testCards, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs resolved differently")
	}
}

func TestResolveRound_InvariantsHold(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("a", 60, 80, 5, 7), mkCombatant("c", 50, 60, 5, 3)},
		[]game.Combatant{mkCombatant("b", 70, 70, 5, 6), mkCombatant("d", 40, 90, 5, 2)},
	)
	for round := 0; round < 10 && b.Status == game.StatusActive; round++ {
		for side := range b.Sides {
			b.Sides[side].Pending = PlanAI(b, side, testCards)
		}
		res := ResolveRound(b, testCards, now)
		if !res.Clean() {
			t.Fatalf("round %d reported anomalies: %+v", res.Round, res.Anomalies)
		}
		for s := range b.Sides {
			for _, c := range b.Sides[s].Team {
				if c.HP < 0 || c.HP > c.MaxHP || c.Energy < 0 || c.Energy > c.MaxEnergy || c.Shield != 0 {
					t.Fatalf("invariant broken for %s: %+v", c.ID, c)
				}
			}
		}
	}
	if b.Status != game.StatusFinished {
		t.Fatalf("expected the AI duel to finish within 10 rounds")
	}
}
