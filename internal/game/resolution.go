package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Xael/reversus1/internal/game/effects"
	"github.com/Xael/reversus1/internal/game/rules"
)

const (
	impulsoOffset    = 1
	castigoOffset    = 3
	challengeAdvance = 3
	resolutionPause  = 1500 * time.Millisecond
)

// resolveRound runs the end-of-round computation. The step order is
// load-bearing: later steps consume the results of earlier ones.
// Caller holds the engine lock with the phase already at RESOLUTION.
func (e *Engine) resolveRound(ctx context.Context) error {
	st := e.state
	e.logger.Debug("resolving round",
		zap.String("match_id", st.MatchID),
		zap.Int("round", st.Turn),
	)

	// Step 1: clear the obscured-cards flag from the previous round before
	// any trigger in this pass can set it again.
	st.CardsObscured = false

	e.presenter.PlaySoundEffect("resolution")
	e.pause(ctx, resolutionPause)

	// Versatrix's shield must strip the round's negative records before
	// scoring and movement consume them.
	if st.Story == BattleFinalBoss {
		for _, p := range st.ActivePlayers() {
			if p.Position == 7 && e.isVersatrix(p) {
				e.shieldTeamFieldEffects(p.Team)
			}
		}
	}

	// Steps 2-4: scores, winner determination, tie resolution.
	winners := e.scoreRound()
	if len(winners) > 0 {
		names := make([]string, len(winners))
		for i, w := range winners {
			names[i] = w.Name
		}
		e.presenter.UpdateLog(fmt.Sprintf("Rodada vencida por %s.", strings.Join(names, " e ")))
	} else {
		e.presenter.UpdateLog("Empate! A rodada não teve vencedor.")
	}

	// Steps 5-6: movement.
	e.applyMovement(winners)

	// Step 7: battle-specific landing abilities.
	e.runLandingAbilities()

	// Step 8: terminal check. When true, all further round processing stops.
	if e.checkGameEnd(ctx) {
		return nil
	}

	// Step 9: winners lead the next round.
	if len(winners) > 0 {
		e.seq.SetCurrent(winners[0].ID)
	}
	return e.startNextRound(ctx)
}

// scoreRound computes every active player's round score and returns the
// round winners in turn order. Ties resolve to a whole team in duo mode
// and are void otherwise.
func (e *Engine) scoreRound() []*Player {
	st := e.state
	var top []*Player
	best := 0
	for _, p := range st.ActivePlayers() {
		score := computeScore(p, st)
		p.LiveScore = score
		switch {
		case len(top) == 0 || score > best:
			top = top[:0]
			top = append(top, p)
			best = score
		case score == best:
			top = append(top, p)
		}
	}
	if len(top) <= 1 {
		return top
	}
	if st.Mode == ModeDuo {
		team := top[0].Team
		sameTeam := team != 0
		for _, p := range top[1:] {
			if p.Team != team {
				sameTeam = false
				break
			}
		}
		if sameTeam {
			return top
		}
	}
	// Multi-way tie across teams, or any tie outside team play, is void.
	return nil
}

// computeScore is a pure function of the played value cards, the resto
// card and the round's recorded effects.
func computeScore(p *Player, st *GameState) int {
	score := p.PlayedSum()

	resto := p.RestoValue()
	if st.fieldTargets(effects.FieldRestoMaior, p.ID) {
		resto = 10
	}
	if st.fieldTargets(effects.FieldRestoMenor, p.ID) {
		resto = 2
	}

	modifier := 1
	if st.fieldTargets(effects.FieldEfeitosDobrados, p.ID) {
		modifier = 2
	}

	se := p.Score
	if st.InversusMode {
		se = se.Inverted()
	}
	switch se {
	case effects.ScoreMais:
		score += resto
	case effects.ScoreMenos:
		score -= resto * modifier
	case effects.ScoreNecroX:
		score += 10
	case effects.ScoreNecroXInvertido:
		score -= 10
	case effects.ScoreNone:
	}
	return score
}

// applyMovement runs the two movement phases: phase A for everyone's own
// movement effects plus the loser nudges, phase B for the winners'
// advance. Positions never leave [1, WinPosition].
func (e *Engine) applyMovement(winners []*Player) {
	st := e.state
	isWinner := make(map[string]bool, len(winners))
	for _, w := range winners {
		isWinner[w.ID] = true
	}
	hadWinner := len(winners) > 0

	for _, p := range st.ActivePlayers() {
		if p.Eliminated {
			continue
		}
		me := p.Movement
		if st.InversusMode {
			me = me.Inverted()
		}
		modifier := 1
		if st.fieldTargets(effects.FieldEfeitosDobrados, p.ID) {
			modifier = 2
		}
		switch me {
		case effects.MoveSobe:
			p.Position = e.board.Clamp(p.Position + 1)
		case effects.MoveDesce:
			p.Position = e.board.Clamp(p.Position - 1*modifier)
		case effects.MovePula:
			if p.PulaTarget >= 0 && p.PulaTarget < e.board.NumPaths() {
				p.PathID = p.PulaTarget
			}
		case effects.MoveNone:
		}

		if hadWinner && !isWinner[p.ID] {
			if st.fieldTargets(effects.FieldImpulso, p.ID) {
				p.Position = e.board.Clamp(p.Position + impulsoOffset)
			}
			if st.fieldTargets(effects.FieldCastigo, p.ID) {
				p.Position = e.board.Clamp(p.Position - castigoOffset)
			}
		}
	}

	for _, w := range winners {
		if w.Eliminated {
			continue
		}
		if e.state.fieldTargets(effects.FieldParada, w.ID) {
			e.presenter.UpdateLog(fmt.Sprintf("Parada! %s venceu mas não avança.", w.Name))
			continue
		}
		advance := 1
		se, me := w.Score, w.Movement
		if st.InversusMode {
			se, me = se.Inverted(), me.Inverted()
		}
		// Desafio only pays out for a clean win: no Mais, no Sobe.
		if st.fieldTargets(effects.FieldDesafio, w.ID) &&
			se != effects.ScoreMais && me != effects.MoveSobe {
			advance = challengeAdvance
			e.presenter.UpdateLog(fmt.Sprintf("Desafio vencido! %s avança %d casas.", w.Name, advance))
		}
		w.Position = e.board.Clamp(w.Position + advance)
	}
}

// startNextRound discards the round's played cards, cycles restos,
// replenishes hands, rearms vacated spaces and runs the round-start
// space scan before seating the leader.
func (e *Engine) startNextRound(ctx context.Context) error {
	st := e.state
	st.Turn++

	st.ActiveFieldEffects = st.ActiveFieldEffects[:0]
	for id := range st.RevealedHands {
		delete(st.RevealedHands, id)
	}

	for _, id := range st.Order {
		p := st.Players[id]
		for _, c := range p.PlayedValue {
			e.deck.Discard(c)
		}
		for _, c := range p.PlayedEffect {
			e.deck.Discard(c)
		}
		p.PlayedValue, p.PlayedEffect = nil, nil
		p.Score = effects.ScoreNone
		p.Movement = effects.MoveNone
		p.PulaTarget = -1
		if p.Eliminated {
			continue
		}

		if p.NextResto == nil {
			p.NextResto = e.deck.Deal(CardValue)
		}
		if p.NextResto != nil {
			e.deck.Discard(p.Resto)
			p.Resto, p.NextResto = p.NextResto, nil
		}

		// Deck exhaustion here degrades to a short hand; only the initial
		// deal is a hard abort.
		for p.countKind(CardValue) < handValueTarget {
			c := e.deck.Deal(CardValue)
			if c == nil {
				e.logger.Warn("value deck exhausted during replenish", zap.String("player", p.ID))
				break
			}
			p.Hand = append(p.Hand, c)
		}
		for p.countKind(CardEffect) < handEffectTarget {
			c := e.deck.Deal(CardEffect)
			if c == nil {
				e.logger.Warn("effect deck exhausted during replenish", zap.String("player", p.ID))
				break
			}
			p.Hand = append(p.Hand, c)
		}
	}

	e.board.ResetUsed(func(pathID, pos int) bool {
		for _, p := range st.Players {
			if !p.Eliminated && p.PathID == pathID && p.Position == pos {
				return true
			}
		}
		return false
	})

	e.seq.StartRound(e.seq.Current())
	st.CurrentPlayer = e.seq.Current()
	st.Phase = rules.PhasePlaying

	// Landing scan for the spaces reached during resolution. This can
	// eliminate players or end the match outright.
	e.runSpaceTriggers(ctx)
	if st.Phase == rules.PhaseGameOver {
		return nil
	}

	e.presenter.UpdateLog(fmt.Sprintf("--- Rodada %d ---", st.Turn))
	e.presenter.RenderAll(e.viewLocked())

	cur := st.Player(st.CurrentPlayer)
	if cur == nil || cur.Eliminated {
		return e.advanceTurn(ctx)
	}
	cur.playedValueThisTurn = false
	cur.playedThisTurn = false
	if !cur.Human {
		e.runPolicy(ctx, cur)
		return e.advanceTurn(ctx)
	}
	return nil
}
