package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Xael/reversus1/internal/game/board"
	"github.com/Xael/reversus1/internal/game/effects"
	"github.com/Xael/reversus1/internal/game/rules"
)

const versatrixName = "Versatrix"

func (e *Engine) isVersatrix(p *Player) bool {
	return p.Name == versatrixName
}

// runSpaceTriggers fires the space-landing consequence for every
// non-eliminated player standing on an unused space. Exactly one instant
// category fires per space per visit; a used space is skipped.
func (e *Engine) runSpaceTriggers(ctx context.Context) {
	st := e.state
	for _, id := range st.Order {
		p := st.Players[id]
		if p == nil || p.Eliminated {
			continue
		}
		sp := e.board.Space(p.PathID, p.Position)
		if sp == nil || sp.Used {
			continue
		}
		e.fireSpace(ctx, p, sp)
		if st.Phase == rules.PhaseGameOver {
			return
		}
	}
}

func (e *Engine) fireSpace(ctx context.Context, p *Player, sp *board.Space) {
	st := e.state
	switch sp.Color {
	case board.ColorBlack:
		sp.Used = true
		if st.Story == BattleFinalBoss {
			// The shared hearts absorb the fall instead of eliminating.
			st.NecroHearts--
			p.Position = 1
			e.presenter.PlaySoundEffect("heart-break")
			e.presenter.UpdateLog(fmt.Sprintf("%s caiu no buraco negro! Um coração se parte e o peão volta ao início.", p.Name))
			e.checkGameEnd(ctx)
			return
		}
		p.Eliminated = true
		e.presenter.PlaySoundEffect("elimination")
		e.presenter.UpdateLog(fmt.Sprintf("%s caiu no buraco negro e foi eliminado!", p.Name))
		e.logger.Info("player eliminated",
			zap.String("match_id", st.MatchID),
			zap.String("player", p.ID),
		)
		e.checkGameEnd(ctx)

	case board.ColorStar:
		sp.Used = true
		p.Stars++
		e.presenter.PlaySoundEffect("star")
		e.presenter.UpdateLog(fmt.Sprintf("%s coletou uma estrela!", p.Name))

	case board.ColorVersatrix:
		sp.Used = true
		if e.isVersatrix(p) {
			p.Position = e.board.Clamp(p.Position + 1)
			e.awaitAck(ctx, fmt.Sprintf("O campo de Versatrix impulsiona %s uma casa à frente!", p.Name), "info")
		} else {
			p.Position = e.board.Clamp(p.Position - 1)
			e.awaitAck(ctx, fmt.Sprintf("O campo de Versatrix empurra %s uma casa para trás!", p.Name), "info")
		}
		e.presenter.UpdateLog(fmt.Sprintf("%s passou pelo campo de Versatrix.", p.Name))

	case board.ColorBlue, board.ColorRed:
		sp.Used = true
		fe, ok := effects.Lookup(sp.EffectName)
		if !ok {
			e.logger.Warn("space carries an unknown effect name",
				zap.String("effect", sp.EffectName),
			)
			return
		}
		style := "positive"
		if fe.Polarity == effects.PolarityNegative {
			style = "negative"
		}
		e.awaitAck(ctx, fmt.Sprintf("%s: %s", fe.Name, fe.Description), style)
		st.ActiveFieldEffects = append(st.ActiveFieldEffects, effects.Active{
			Name:      fe.Name,
			Polarity:  fe.Polarity,
			AppliesTo: p.ID,
		})
		if fe.Immediate {
			e.applyImmediateFieldEffect(p, fe)
		}
		e.presenter.UpdateLog(fmt.Sprintf("%s ativou o efeito de campo %s.", p.Name, fe.Name))

	case board.ColorNeutral:
	}
}

// applyImmediateFieldEffect performs the side effect of the fixed subset
// of named effects that act the moment they fire. Everything else is just
// recorded and consumed during resolution.
func (e *Engine) applyImmediateFieldEffect(p *Player, fe effects.FieldEffect) {
	st := e.state
	switch fe.Name {
	case effects.FieldJogoAberto:
		st.RevealedHands[p.ID] = true

	case effects.FieldCartaMaior:
		e.swapValueCard(p, false)

	case effects.FieldCartaMenor:
		e.swapValueCard(p, true)

	case effects.FieldReversusTotal:
		st.InversusMode = true
		e.presenter.PlaySoundEffect("reversus-total")

	case effects.FieldTotalRevesusNada:
		if st.Mode != ModeDuo {
			return
		}
		partner := e.teammateOf(p)
		if partner == nil {
			return
		}
		kept := false
		hand := partner.Hand[:0]
		for _, c := range partner.Hand {
			if c.Kind == CardEffect {
				if kept {
					e.deck.Discard(c)
					continue
				}
				kept = true
			}
			hand = append(hand, c)
		}
		partner.Hand = hand
		e.presenter.UpdateLog(fmt.Sprintf("%s precisou descartar cartas de efeito!", partner.Name))
	}
}

// swapValueCard replaces one value card in the hand with a fresh draw.
// The replacement is drawn first, so on deck exhaustion the redraw is
// aborted and the hand stays untouched.
func (e *Engine) swapValueCard(p *Player, highest bool) {
	idx := -1
	for i, c := range p.Hand {
		if c.Kind != CardValue {
			continue
		}
		if idx == -1 ||
			(highest && c.Value > p.Hand[idx].Value) ||
			(!highest && c.Value < p.Hand[idx].Value) {
			idx = i
		}
	}
	if idx == -1 {
		return
	}
	replacement := e.deck.Deal(CardValue)
	if replacement == nil {
		e.logger.Warn("value deck exhausted, skipping forced redraw", zap.String("player", p.ID))
		return
	}
	old := p.Hand[idx]
	p.Hand[idx] = replacement
	e.deck.Discard(old)
	e.presenter.UpdateLog(fmt.Sprintf("%s trocou a carta %d por uma nova.", p.Name, old.Value))
}

func (e *Engine) teammateOf(p *Player) *Player {
	if p.Team == 0 {
		return nil
	}
	for _, id := range e.state.Order {
		other := e.state.Players[id]
		if other != nil && other.ID != p.ID && other.Team == p.Team && !other.Eliminated {
			return other
		}
	}
	return nil
}

// runLandingAbilities is the post-resolution pass for battle-specific
// secret abilities, keyed on exact position and battle.
func (e *Engine) runLandingAbilities() {
	st := e.state
	for _, id := range st.Order {
		p := st.Players[id]
		if p == nil || p.Eliminated {
			continue
		}
		switch {
		case st.Story == BattleXael && p.Position == 5:
			p.Stars++
			e.presenter.PlaySoundEffect("star")
			e.presenter.UpdateLog(fmt.Sprintf("%s encontrou uma estrela escondida!", p.Name))

		case st.Story == BattleKingNecro && !p.Human &&
			(p.Position == 3 || p.Position == 6 || p.Position == 9):
			if !st.CardsObscured {
				st.CardsObscured = true
				e.presenter.PlaySoundEffect("obscure")
				e.presenter.UpdateLog("O Rei Necroverso obscurece as cartas da mesa!")
			}
		}
	}
}

// shieldTeamFieldEffects drops the negative field effects recorded against
// a team this round. Runs at the top of resolution, before scoring and
// movement consume the records.
func (e *Engine) shieldTeamFieldEffects(team int) {
	st := e.state
	kept := st.ActiveFieldEffects[:0]
	removed := 0
	for _, a := range st.ActiveFieldEffects {
		tgt := st.Players[a.AppliesTo]
		if a.Polarity == effects.PolarityNegative && tgt != nil && tgt.Team == team && team != 0 {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	st.ActiveFieldEffects = kept
	if removed > 0 {
		e.presenter.UpdateLog("Versatrix protege sua equipe dos efeitos negativos do campo!")
	}
}
