package game

import (
	"fmt"

	"github.com/Xael/reversus1/internal/game/effects"
	"github.com/Xael/reversus1/internal/game/rules"
)

// CardKind distinguishes numeric value cards from named effect cards.
type CardKind int

const (
	CardValue CardKind = iota
	CardEffect
)

func (k CardKind) String() string {
	if k == CardValue {
		return "VALUE"
	}
	return "EFFECT"
}

// Card is a single game card. A card belongs to exactly one of: a player's
// hand, a player's played piles, or a discard pile.
type Card struct {
	ID    string
	Kind  CardKind
	Name  string
	Value int // value cards only
}

func (c *Card) String() string {
	if c.Kind == CardValue {
		return fmt.Sprintf("%d", c.Value)
	}
	return c.Name
}

// Player is one seat at the table. Eliminated players stay in the match
// list, flagged, so the turn order never changes size.
type Player struct {
	ID    string
	Name  string
	Team  int // 0 = no team
	Human bool

	Hand         []*Card
	PlayedValue  []*Card // value cards played this round
	PlayedEffect []*Card // effect cards played this round

	Position int
	PathID   int

	Score      effects.ScoreEffect
	Movement   effects.MovementEffect
	PulaTarget int // chosen destination path for Pula, -1 when unset

	Resto     *Card // reserved value card contributing to scoring
	NextResto *Card

	Stars      int
	Eliminated bool
	LiveScore  int

	playedValueThisTurn bool
	playedThisTurn      bool
}

// PlayedSum returns the sum of value cards played this round.
func (p *Player) PlayedSum() int {
	total := 0
	for _, c := range p.PlayedValue {
		total += c.Value
	}
	return total
}

// RestoValue returns the face value of the reserved resto card, or zero
// when none is held.
func (p *Player) RestoValue() int {
	if p.Resto == nil {
		return 0
	}
	return p.Resto.Value
}

func (p *Player) removeFromHand(cardID string) *Card {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c
		}
	}
	return nil
}

func (p *Player) countKind(kind CardKind) int {
	n := 0
	for _, c := range p.Hand {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// GameMode selects free-play team structure.
type GameMode int

const (
	ModeSolo GameMode = iota
	ModeDuo
)

func (m GameMode) String() string {
	if m == ModeDuo {
		return "DUO"
	}
	return "SOLO"
}

// StoryBattle identifies a scripted match variant with bespoke win rules.
type StoryBattle string

const (
	BattleNone      StoryBattle = ""
	BattleKingNecro StoryBattle = "rei_necroverso"
	BattleFinalBoss StoryBattle = "necroverso_final"
	BattleXael      StoryBattle = "xael_desafio"
	BattleInversus  StoryBattle = "inversus"
)

// GameState is the authoritative mutable state of one match. It has a
// single writer at a time: only the component currently on turn mutates it.
type GameState struct {
	MatchID string
	Turn    int
	Phase   rules.GamePhase
	Mode    GameMode
	Story   StoryBattle

	Players       map[string]*Player
	Order         []string // fixed turn order, never resized mid-match
	CurrentPlayer string

	ActiveFieldEffects []effects.Active
	RevealedHands      map[string]bool
	CardsObscured      bool
	InversusMode       bool

	NecroHearts  int
	XaelCooldown int
}

// IsStoryMode reports whether the match is a scripted story battle.
func (s *GameState) IsStoryMode() bool {
	return s.Story != BattleNone
}

// Player returns the player with the given id, or nil.
func (s *GameState) Player(id string) *Player {
	return s.Players[id]
}

// IsEliminated reports elimination for the turn sequencer's skip scan.
func (s *GameState) IsEliminated(id string) bool {
	p := s.Players[id]
	return p == nil || p.Eliminated
}

// ActivePlayers returns non-eliminated players in turn order.
func (s *GameState) ActivePlayers() []*Player {
	out := make([]*Player, 0, len(s.Order))
	for _, id := range s.Order {
		if p := s.Players[id]; p != nil && !p.Eliminated {
			out = append(out, p)
		}
	}
	return out
}

// Teammates reports whether two players share a team. Players without a
// team are never teammates, not even with themselves.
func (s *GameState) Teammates(a, b *Player) bool {
	return a.Team != 0 && a.Team == b.Team
}

// fieldTargets reports whether a named field effect targets the player,
// honoring the category replacement done at record time.
func (s *GameState) fieldTargets(name, playerID string) bool {
	return effects.AnyActive(s.ActiveFieldEffects, name, playerID)
}
