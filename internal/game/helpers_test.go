package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"github.com/Xael/reversus1/internal/game/board"
	"github.com/Xael/reversus1/internal/game/rules"
)

// recorderPresenter captures presentation hooks for assertions.
type recorderPresenter struct {
	mu        sync.Mutex
	logs      []string
	sounds    []string
	announces []string
	renders   int
	lastView  *GameView
	terminals []terminalEvent
}

type terminalEvent struct {
	battle string
	won    bool
}

func (r *recorderPresenter) UpdateLog(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entry)
}

func (r *recorderPresenter) PlaySoundEffect(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sounds = append(r.sounds, name)
}

func (r *recorderPresenter) AnnounceEffect(text, style string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.announces = append(r.announces, text)
}

func (r *recorderPresenter) RenderAll(view *GameView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders++
	r.lastView = view
}

func (r *recorderPresenter) StoryWinLoss(battle string, won bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terminals = append(r.terminals, terminalEvent{battle: battle, won: won})
}

type stubAchievements struct {
	granted []string
}

func (s *stubAchievements) GrantFirstWin(_ context.Context, playerName string) error {
	s.granted = append(s.granted, playerName)
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *recorderPresenter) {
	t.Helper()
	rec := &recorderPresenter{}
	e := NewEngine(zaptest.NewLogger(t),
		WithClock(instantClock{}),
		WithSeed(42),
		WithPresenter(rec),
	)
	return e, rec
}

// neutralBoard has no colored spaces, so tests control triggers by
// painting exactly the spaces they need.
func neutralBoard(paths, win int) *board.Board {
	b := &board.Board{WinPosition: win}
	for i := 0; i < paths; i++ {
		b.Paths = append(b.Paths, board.Path{ID: i, Spaces: make([]board.Space, win)})
	}
	return b
}

func newPlayer(id string, human bool) *Player {
	return &Player{
		ID:         id,
		Name:       id,
		Human:      human,
		Position:   1,
		PulaTarget: -1,
	}
}

// installMatch wires a hand-built roster into the engine, bypassing the
// randomized dealing of StartMatch.
func installMatch(e *Engine, mode GameMode, story StoryBattle, players ...*Player) *GameState {
	st := &GameState{
		MatchID:       "match-" + uuid.NewString()[:8],
		Turn:          1,
		Phase:         rules.PhasePlaying,
		Mode:          mode,
		Story:         story,
		Players:       make(map[string]*Player, len(players)),
		RevealedHands: make(map[string]bool),
	}
	if story == BattleFinalBoss {
		st.NecroHearts = finalBossHearts
	}
	for i, p := range players {
		if p.PathID == 0 {
			p.PathID = i
		}
		st.Players[p.ID] = p
		st.Order = append(st.Order, p.ID)
	}
	st.CurrentPlayer = st.Order[0]

	e.state = st
	e.deck = NewDeck(e.rng, story)
	e.board = neutralBoard(defaultPaths, defaultWinPosition)
	e.seq = rules.NewSequencer(st.Order, st.Order[0])
	e.terminalSent = false
	return st
}

// resolveNow drives one resolution pass the way advanceTurn would.
func resolveNow(t *testing.T, e *Engine) {
	t.Helper()
	e.mu.Lock()
	e.state.Phase = rules.PhaseResolution
	if err := e.resolveRound(context.Background()); err != nil {
		e.mu.Unlock()
		t.Fatalf("resolveRound failed: %v", err)
	}
	e.mu.Unlock()
}

func triggerSpaces(e *Engine) {
	e.mu.Lock()
	e.runSpaceTriggers(context.Background())
	e.mu.Unlock()
}

func valueCard(v int) *Card {
	return &Card{ID: uuid.NewString(), Kind: CardValue, Value: v}
}

func effectCard(name string) *Card {
	return &Card{ID: uuid.NewString(), Kind: CardEffect, Name: name}
}

// countCards tallies every card the match can see, by kind.
func countCards(e *Engine) (value, effect int) {
	count := func(cards []*Card) {
		for _, c := range cards {
			if c.Kind == CardValue {
				value++
			} else {
				effect++
			}
		}
	}
	for _, p := range e.state.Players {
		count(p.Hand)
		count(p.PlayedValue)
		count(p.PlayedEffect)
		if p.Resto != nil {
			value++
		}
		if p.NextResto != nil {
			value++
		}
	}
	count(e.deck.DiscardValue)
	count(e.deck.DiscardEffect)
	value += e.deck.Remaining(CardValue)
	effect += e.deck.Remaining(CardEffect)
	return value, effect
}
