package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/Xael/reversus1/internal/game/effects"
)

// Policy decides an AI seat's plays for one turn. It acts through the
// same action surface a human uses; returning without playing counts as
// a pass, and any error or panic degrades to an automatic pass.
type Policy interface {
	TakeTurn(ctx context.Context, st *GameState, playerID string, act Actor) error
}

// Actor is the restricted action surface handed to a policy.
type Actor interface {
	PlayCard(cardID string, target Target) error
}

// aiActor binds a policy's plays to the engine while the engine lock is
// already held.
type aiActor struct {
	engine   *Engine
	playerID string
}

func (a *aiActor) PlayCard(cardID string, target Target) error {
	return a.engine.playCardLocked(a.playerID, cardID, target)
}

// GreedyPolicy is the default opponent: it plays its highest value card,
// boosts itself and hinders whoever is closest to winning.
type GreedyPolicy struct {
	rng *rand.Rand
}

// NewGreedyPolicy creates the default policy.
func NewGreedyPolicy(rng *rand.Rand) *GreedyPolicy {
	return &GreedyPolicy{rng: rng}
}

func (g *GreedyPolicy) TakeTurn(ctx context.Context, st *GameState, playerID string, act Actor) error {
	p := st.Player(playerID)
	if p == nil {
		return fmt.Errorf("unknown player %s", playerID)
	}

	var bestValue *Card
	for _, c := range p.Hand {
		if c.Kind == CardValue && (bestValue == nil || c.Value > bestValue.Value) {
			bestValue = c
		}
	}
	if bestValue != nil {
		if err := act.PlayCard(bestValue.ID, Target{}); err != nil {
			return err
		}
	}

	// Spend at most one effect card per turn, and not every turn.
	if g.rng.Intn(2) == 0 {
		return nil
	}
	leader := g.biggestThreat(st, p)
	for _, c := range p.Hand {
		if c.Kind != CardEffect {
			continue
		}
		switch c.Name {
		case cardMais, cardSobe, cardNecroX:
			if p.Score == effects.ScoreNone || c.Name == cardSobe {
				return act.PlayCard(c.ID, Target{PlayerID: playerID})
			}
		case cardMenos, cardDesce, cardNecroXInvertido:
			if leader != "" {
				return act.PlayCard(c.ID, Target{PlayerID: leader})
			}
		}
	}
	return nil
}

// biggestThreat returns the opponent closest to the winning position.
func (g *GreedyPolicy) biggestThreat(st *GameState, self *Player) string {
	var threat *Player
	for _, p := range st.ActivePlayers() {
		if p.ID == self.ID || st.Teammates(p, self) {
			continue
		}
		if threat == nil || p.Position > threat.Position {
			threat = p
		}
	}
	if threat == nil {
		return ""
	}
	return threat.ID
}
