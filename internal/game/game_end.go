package game

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Xael/reversus1/internal/game/rules"
)

// checkGameEnd evaluates the mode-aware terminal conditions in priority
// order; the first match governs. Returns true when the match is over, in
// which case callers must stop all further round processing. Exactly one
// terminal notification is emitted per match.
func (e *Engine) checkGameEnd(ctx context.Context) bool {
	st := e.state
	if st.Phase == rules.PhaseGameOver {
		return true
	}

	// 1. Final boss: the shared hearts run out, or the defending team falls.
	if st.Story == BattleFinalBoss {
		if st.NecroHearts <= 0 {
			e.finishStory(true)
			return true
		}
		if e.humanTeamEliminated() {
			e.finishStory(false)
			return true
		}
	}

	// 2. King battle: last one standing.
	if st.Story == BattleKingNecro {
		active := st.ActivePlayers()
		if len(active) <= 1 {
			e.finishStory(len(active) == 1 && active[0].Human)
			return true
		}
	}

	// 3. Standard win by position.
	var reached []*Player
	for _, p := range st.ActivePlayers() {
		if p.Position >= e.board.WinPosition {
			reached = append(reached, p)
		}
	}
	if len(reached) > 0 {
		e.finishByPosition(ctx, reached)
		return true
	}

	// Eliminations alone can also end a match: a wiped team or a sole
	// survivor settles it without anyone reaching the final space.
	active := st.ActivePlayers()
	if len(active) == 0 {
		e.finishFreePlay(ctx, nil)
		return true
	}
	if st.Mode == ModeDuo {
		team := active[0].Team
		wiped := team != 0
		for _, p := range active[1:] {
			if p.Team != team {
				wiped = false
				break
			}
		}
		if wiped {
			e.finishFreePlay(ctx, active)
			return true
		}
	} else if len(active) == 1 && len(st.Order) > 1 {
		e.finishFreePlay(ctx, active)
		return true
	}
	return false
}

// finishByPosition settles a win where one or more players reached the
// final space in the same resolution.
func (e *Engine) finishByPosition(ctx context.Context, reached []*Player) {
	st := e.state

	// The challenge duel breaks a simultaneous arrival by stars collected,
	// and the challenger is the designated winner of an exact tie. The
	// asymmetry is deliberate.
	if st.Story == BattleXael && len(reached) > 1 {
		winner := reached[0]
		for _, p := range reached[1:] {
			switch {
			case p.Stars > winner.Stars:
				winner = p
			case p.Stars == winner.Stars && !p.Human:
				winner = p
			}
		}
		e.finishStory(winner.Human)
		return
	}

	if st.IsStoryMode() {
		won := false
		for _, p := range reached {
			if p.Human || e.onHumanTeam(p) {
				won = true
				break
			}
		}
		e.finishStory(won)
		return
	}

	e.finishFreePlay(ctx, reached)
}

// finishStory ends a story battle and emits its single terminal event.
func (e *Engine) finishStory(won bool) {
	st := e.state
	if e.terminalSent {
		return
	}
	e.terminalSent = true
	st.Phase = rules.PhaseGameOver

	e.logger.Info("story battle finished",
		zap.String("match_id", st.MatchID),
		zap.String("battle", string(st.Story)),
		zap.Bool("won", won),
	)
	if won {
		e.presenter.PlaySoundEffect("victory")
	} else {
		e.presenter.PlaySoundEffect("defeat")
	}
	e.presenter.StoryWinLoss(string(st.Story), won)
	e.presenter.RenderAll(e.viewLocked())
}

// finishFreePlay ends a free-play match, announcing the winners by name
// and granting the first-win achievement to winning humans.
func (e *Engine) finishFreePlay(ctx context.Context, winners []*Player) {
	st := e.state
	if e.terminalSent {
		return
	}
	e.terminalSent = true
	st.Phase = rules.PhaseGameOver

	if len(winners) == 0 {
		e.presenter.UpdateLog("A partida terminou sem vencedores.")
		e.presenter.RenderAll(e.viewLocked())
		return
	}

	names := make([]string, len(winners))
	for i, w := range winners {
		names[i] = w.Name
	}
	announcement := fmt.Sprintf("Vitória de %s!", strings.Join(names, " e "))
	if st.Mode == ModeDuo {
		announcement = fmt.Sprintf("Vitória da dupla de %s!", strings.Join(names, " e "))
	}
	e.logger.Info("match finished",
		zap.String("match_id", st.MatchID),
		zap.Strings("winners", names),
	)
	e.presenter.PlaySoundEffect("victory")
	e.presenter.AnnounceEffect(announcement, "victory", 0)
	e.presenter.UpdateLog(announcement)

	if e.achievements != nil {
		for _, w := range winners {
			if !w.Human {
				continue
			}
			if err := e.achievements.GrantFirstWin(ctx, w.Name); err != nil {
				e.logger.Warn("failed to grant achievement",
					zap.String("player", w.Name),
					zap.Error(err),
				)
			}
		}
	}
	e.presenter.RenderAll(e.viewLocked())
}

func (e *Engine) humanTeamEliminated() bool {
	st := e.state
	found := false
	for _, id := range st.Order {
		p := st.Players[id]
		if p == nil {
			continue
		}
		if p.Human || e.onHumanTeam(p) {
			found = true
			if !p.Eliminated {
				return false
			}
		}
	}
	return found
}

func (e *Engine) onHumanTeam(p *Player) bool {
	if p.Team == 0 {
		return p.Human
	}
	for _, id := range e.state.Order {
		other := e.state.Players[id]
		if other != nil && other.Team == p.Team && other.Human {
			return true
		}
	}
	return false
}
