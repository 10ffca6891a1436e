package game

import (
	"testing"

	"github.com/Xael/reversus1/internal/game/effects"
	"github.com/Xael/reversus1/internal/game/rules"
)

func withActive(st *GameState, name, playerID string) {
	fe, _ := effects.Lookup(name)
	st.ActiveFieldEffects = append(st.ActiveFieldEffects, effects.Active{
		Name:      name,
		Polarity:  fe.Polarity,
		AppliesTo: playerID,
	})
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name     string
		played   []int
		resto    int
		score    effects.ScoreEffect
		fields   []string
		inversus bool
		want     int
	}{
		{name: "sum only", played: []int{3, 4}, resto: 5, want: 7},
		{name: "mais adds resto once", played: []int{7}, resto: 3, score: effects.ScoreMais, want: 10},
		{name: "menos subtracts resto", played: []int{9}, resto: 4, score: effects.ScoreMenos, want: 5},
		{name: "necro x flat", played: []int{2}, resto: 9, score: effects.ScoreNecroX, want: 12},
		{name: "necro x invertido flat", played: []int{8}, resto: 9, score: effects.ScoreNecroXInvertido, want: -2},
		{name: "resto maior overrides", played: []int{1}, resto: 3, score: effects.ScoreMais, fields: []string{effects.FieldRestoMaior}, want: 11},
		{name: "resto menor overrides", played: []int{1}, resto: 9, score: effects.ScoreMais, fields: []string{effects.FieldRestoMenor}, want: 3},
		{name: "resto menor wins over maior", played: []int{1}, resto: 5, score: effects.ScoreMais, fields: []string{effects.FieldRestoMaior, effects.FieldRestoMenor}, want: 3},
		{name: "dobrados doubles menos", played: []int{10}, resto: 3, score: effects.ScoreMenos, fields: []string{effects.FieldEfeitosDobrados}, want: 4},
		{name: "dobrados leaves mais alone", played: []int{5}, resto: 3, score: effects.ScoreMais, fields: []string{effects.FieldEfeitosDobrados}, want: 8},
		{name: "inversus flips mais to menos", played: []int{9}, resto: 3, score: effects.ScoreMais, inversus: true, want: 6},
		{name: "inversus flips necro x", played: []int{5}, resto: 1, score: effects.ScoreNecroX, inversus: true, want: -5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newPlayer("p1", true)
			for _, v := range tc.played {
				p.PlayedValue = append(p.PlayedValue, valueCard(v))
			}
			p.Resto = valueCard(tc.resto)
			p.Score = tc.score
			st := &GameState{InversusMode: tc.inversus}
			for _, f := range tc.fields {
				withActive(st, f, p.ID)
			}
			if got := computeScore(p, st); got != tc.want {
				t.Fatalf("computeScore = %d, want %d", got, tc.want)
			}
		})
	}
}

// The canonical worked example: a lower raw sum wins through Mais plus
// the resto, and only the winner advances.
func TestResolveRoundBasicExample(t *testing.T) {
	e, _ := newTestEngine(t)
	p1 := newPlayer("p1", true)
	p2 := newPlayer("p2", true)
	installMatch(e, ModeSolo, BattleNone, p1, p2)

	p1.PlayedValue = []*Card{valueCard(3), valueCard(4)}
	p1.Resto = valueCard(3)
	p1.Score = effects.ScoreMais
	p2.PlayedValue = []*Card{valueCard(9)}
	p2.Resto = valueCard(5)

	resolveNow(t, e)

	if p1.LiveScore != 10 || p2.LiveScore != 9 {
		t.Fatalf("scores = %d vs %d, want 10 vs 9", p1.LiveScore, p2.LiveScore)
	}
	if p1.Position != 2 {
		t.Fatalf("winner position = %d, want 2", p1.Position)
	}
	if p2.Position != 1 {
		t.Fatalf("loser position = %d, want 1", p2.Position)
	}
	if e.state.Turn != 2 {
		t.Fatalf("turn = %d, want 2", e.state.Turn)
	}
	if e.seq.Current() != "p1" {
		t.Fatalf("next round leader = %s, want p1", e.seq.Current())
	}
	if e.state.Phase != rules.PhasePlaying {
		t.Fatalf("phase = %s, want %s", e.state.Phase, rules.PhasePlaying)
	}
}

func TestResolveRoundSoloTieIsVoid(t *testing.T) {
	e, rec := newTestEngine(t)
	p1 := newPlayer("p1", true)
	p2 := newPlayer("p2", true)
	installMatch(e, ModeSolo, BattleNone, p1, p2)

	p1.PlayedValue = []*Card{valueCard(6)}
	p1.Resto = valueCard(2)
	p2.PlayedValue = []*Card{valueCard(6)}
	p2.Resto = valueCard(8)

	resolveNow(t, e)

	if p1.Position != 1 || p2.Position != 1 {
		t.Fatalf("positions = %d, %d; a void round moves nobody", p1.Position, p2.Position)
	}
	found := false
	for _, l := range rec.logs {
		if l == "Empate! A rodada não teve vencedor." {
			found = true
		}
	}
	if !found {
		t.Fatalf("tie announcement missing from log: %v", rec.logs)
	}
}

func TestResolveRoundDuoSameTeamTieWins(t *testing.T) {
	e, _ := newTestEngine(t)
	p1 := newPlayer("p1", true)
	p2 := newPlayer("p2", false)
	p3 := newPlayer("p3", false)
	p4 := newPlayer("p4", false)
	p1.Team, p3.Team = 1, 1
	p2.Team, p4.Team = 2, 2
	installMatch(e, ModeDuo, BattleNone, p1, p2, p3, p4)
	for _, p := range []*Player{p1, p2, p3, p4} {
		p.Resto = valueCard(1)
	}
	p1.PlayedValue = []*Card{valueCard(8)}
	p3.PlayedValue = []*Card{valueCard(8)}
	p2.PlayedValue = []*Card{valueCard(4)}
	p4.PlayedValue = []*Card{valueCard(5)}

	resolveNow(t, e)

	if p1.Position != 2 || p3.Position != 2 {
		t.Fatalf("team tie should advance both winners, got %d and %d", p1.Position, p3.Position)
	}
	if p2.Position != 1 || p4.Position != 1 {
		t.Fatalf("losers moved: %d and %d", p2.Position, p4.Position)
	}
}

func TestResolveRoundDuoCrossTeamTieIsVoid(t *testing.T) {
	e, _ := newTestEngine(t)
	p1 := newPlayer("p1", true)
	p2 := newPlayer("p2", false)
	p1.Team, p2.Team = 1, 2
	installMatch(e, ModeDuo, BattleNone, p1, p2)
	p1.Resto = valueCard(1)
	p2.Resto = valueCard(1)
	p1.PlayedValue = []*Card{valueCard(7)}
	p2.PlayedValue = []*Card{valueCard(7)}

	resolveNow(t, e)

	if p1.Position != 1 || p2.Position != 1 {
		t.Fatalf("cross-team tie should be void, got positions %d and %d", p1.Position, p2.Position)
	}
}

func TestMovementPhaseAndClamping(t *testing.T) {
	e, _ := newTestEngine(t)
	p1 := newPlayer("p1", true)
	p2 := newPlayer("p2", true)
	p3 := newPlayer("p3", true)
	installMatch(e, ModeSolo, BattleNone, p1, p2, p3)
	for _, p := range []*Player{p1, p2, p3} {
		p.Resto = valueCard(1)
	}
	// p1 wins, p2 at the floor with Desce, p3 mid-board with Sobe.
	p1.PlayedValue = []*Card{valueCard(10)}
	p2.PlayedValue = []*Card{valueCard(2)}
	p2.Movement = effects.MoveDesce
	p3.PlayedValue = []*Card{valueCard(3)}
	p3.Position = 4
	p3.Movement = effects.MoveSobe

	resolveNow(t, e)

	if p2.Position != 1 {
		t.Fatalf("desce at position 1 must clamp, got %d", p2.Position)
	}
	if p3.Position != 5 {
		t.Fatalf("sobe should move p3 to 5, got %d", p3.Position)
	}
	if p1.Position != 2 {
		t.Fatalf("winner advance = %d, want 2", p1.Position)
	}
}

func TestMovementPulaSwitchesPath(t *testing.T) {
	e, _ := newTestEngine(t)
	p1 := newPlayer("p1", true)
	p2 := newPlayer("p2", true)
	installMatch(e, ModeSolo, BattleNone, p1, p2)
	p1.Resto = valueCard(1)
	p2.Resto = valueCard(1)
	p1.PlayedValue = []*Card{valueCard(9)}
	p2.PlayedValue = []*Card{valueCard(1)}
	p2.Movement = effects.MovePula
	p2.PulaTarget = 4

	resolveNow(t, e)

	if p2.PathID != 4 {
		t.Fatalf("pula should move p2 to path 4, got %d", p2.PathID)
	}
	if p2.Position != 1 {
		t.Fatalf("pula keeps the position, got %d", p2.Position)
	}
}

func TestLoserNudgesOnlyWhenRoundHadWinner(t *testing.T) {
	e, _ := newTestEngine(t)
	p1 := newPlayer("p1", true)
	p2 := newPlayer("p2", true)
	installMatch(e, ModeSolo, BattleNone, p1, p2)
	p1.Resto = valueCard(1)
	p2.Resto = valueCard(1)
	p2.Position = 5
	withActive(e.state, effects.FieldImpulso, "p2")
	withActive(e.state, effects.FieldCastigo, "p2")

	// Void round first: same score, nudges must not fire.
	p1.PlayedValue = []*Card{valueCard(5)}
	p2.PlayedValue = []*Card{valueCard(5)}
	resolveNow(t, e)
	if p2.Position != 5 {
		t.Fatalf("nudges fired on a void round, position = %d", p2.Position)
	}

	// Decisive round: +1 impulso then -3 castigo nets -2.
	withActive(e.state, effects.FieldImpulso, "p2")
	withActive(e.state, effects.FieldCastigo, "p2")
	p1.PlayedValue = []*Card{valueCard(9)}
	p2.PlayedValue = []*Card{valueCard(1)}
	resolveNow(t, e)
	if p2.Position != 3 {
		t.Fatalf("impulso+castigo should net -2, position = %d", p2.Position)
	}
}

func TestParadaBlocksWinnerAdvance(t *testing.T) {
	e, _ := newTestEngine(t)
	p1 := newPlayer("p1", true)
	p2 := newPlayer("p2", true)
	installMatch(e, ModeSolo, BattleNone, p1, p2)
	p1.Resto = valueCard(1)
	p2.Resto = valueCard(1)
	withActive(e.state, effects.FieldParada, "p1")
	p1.PlayedValue = []*Card{valueCard(9)}
	p2.PlayedValue = []*Card{valueCard(2)}

	resolveNow(t, e)

	if p1.Position != 1 {
		t.Fatalf("parada should hold the winner at 1, got %d", p1.Position)
	}
}

func TestDesafioPaysOnlyForCleanWin(t *testing.T) {
	for _, tc := range []struct {
		name  string
		score effects.ScoreEffect
		move  effects.MovementEffect
		want  int
	}{
		{name: "clean win advances three", want: 4},
		{name: "mais voids the challenge", score: effects.ScoreMais, want: 2},
		{name: "sobe voids the challenge", move: effects.MoveSobe, want: 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newTestEngine(t)
			p1 := newPlayer("p1", true)
			p2 := newPlayer("p2", true)
			installMatch(e, ModeSolo, BattleNone, p1, p2)
			p1.Resto = valueCard(1)
			p2.Resto = valueCard(1)
			withActive(e.state, effects.FieldDesafio, "p1")
			p1.PlayedValue = []*Card{valueCard(10)}
			p1.Score = tc.score
			p1.Movement = tc.move
			p2.PlayedValue = []*Card{valueCard(1)}

			resolveNow(t, e)

			if p1.Position != tc.want {
				t.Fatalf("position = %d, want %d", p1.Position, tc.want)
			}
		})
	}
}

func TestInversusFlipsMovement(t *testing.T) {
	e, _ := newTestEngine(t)
	p1 := newPlayer("p1", true)
	p2 := newPlayer("p2", true)
	installMatch(e, ModeSolo, BattleNone, p1, p2)
	e.state.InversusMode = true
	p1.Resto = valueCard(1)
	p2.Resto = valueCard(1)
	p1.PlayedValue = []*Card{valueCard(9)}
	p2.PlayedValue = []*Card{valueCard(2)}
	p2.Position = 5
	p2.Movement = effects.MoveSobe // consumed as Desce

	resolveNow(t, e)

	if p2.Position != 4 {
		t.Fatalf("inverted sobe should move p2 down to 4, got %d", p2.Position)
	}
}

func TestStartNextRoundCyclesRestoAndReplenishes(t *testing.T) {
	e, _ := newTestEngine(t)
	p1 := newPlayer("p1", true)
	p2 := newPlayer("p2", true)
	installMatch(e, ModeSolo, BattleNone, p1, p2)
	oldResto := valueCard(7)
	p1.Resto = oldResto
	p2.Resto = valueCard(2)
	p1.PlayedValue = []*Card{valueCard(9)}
	p1.PlayedEffect = []*Card{effectCard(cardMais)}
	p1.Score = effects.ScoreMais
	p2.PlayedValue = []*Card{valueCard(1)}
	withActive(e.state, effects.FieldDesafio, "p2")
	e.state.RevealedHands["p2"] = true

	resolveNow(t, e)

	if p1.Resto == oldResto {
		t.Fatalf("resto was not cycled")
	}
	foundOld := false
	for _, c := range e.deck.DiscardValue {
		if c == oldResto {
			foundOld = true
		}
	}
	if !foundOld {
		t.Fatalf("old resto not discarded")
	}
	if len(p1.PlayedValue) != 0 || len(p1.PlayedEffect) != 0 {
		t.Fatalf("played piles not cleared")
	}
	if p1.Score != effects.ScoreNone || p1.Movement != effects.MoveNone {
		t.Fatalf("card effects not cleared for the new round")
	}
	if len(e.state.ActiveFieldEffects) != 0 {
		t.Fatalf("field effects must expire at round end")
	}
	if len(e.state.RevealedHands) != 0 {
		t.Fatalf("revealed hands must reset at round end")
	}
	for _, p := range []*Player{p1, p2} {
		if got := p.countKind(CardValue); got != handValueTarget {
			t.Fatalf("%s has %d value cards, want %d", p.ID, got, handValueTarget)
		}
		if got := p.countKind(CardEffect); got != handEffectTarget {
			t.Fatalf("%s has %d effect cards, want %d", p.ID, got, handEffectTarget)
		}
	}
}

func TestResolveRoundSkipsEliminatedPlayers(t *testing.T) {
	e, _ := newTestEngine(t)
	p1 := newPlayer("p1", true)
	p2 := newPlayer("p2", true)
	p3 := newPlayer("p3", true)
	installMatch(e, ModeSolo, BattleNone, p1, p2, p3)
	for _, p := range []*Player{p1, p2, p3} {
		p.Resto = valueCard(1)
	}
	p3.Eliminated = true
	p3.Position = 4
	p3.Movement = effects.MoveSobe
	p3.PlayedValue = []*Card{valueCard(10)}
	p1.PlayedValue = []*Card{valueCard(5)}
	p2.PlayedValue = []*Card{valueCard(2)}

	resolveNow(t, e)

	if p3.Position != 4 {
		t.Fatalf("eliminated player moved to %d", p3.Position)
	}
	if p1.Position != 2 {
		t.Fatalf("p1 should win the round despite p3's higher pile, got position %d", p1.Position)
	}
}
