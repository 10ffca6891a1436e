package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xael/reversus1/internal/game/board"
	"github.com/Xael/reversus1/internal/game/effects"
	"github.com/Xael/reversus1/internal/game/rules"
)

const (
	defaultPaths        = 6
	defaultWinPosition  = 10
	finalBossHearts     = 3
	xaelAbilityCooldown = 3
)

// PlayerConfig describes one seat of a new match.
type PlayerConfig struct {
	ID    string
	Name  string
	Human bool
	Team  int
}

// MatchConfig describes a new match.
type MatchConfig struct {
	Mode        GameMode
	Story       StoryBattle
	Players     []PlayerConfig
	Paths       int
	WinPosition int
}

// Target names who (and for Pula, which path) an effect card applies to.
type Target struct {
	PlayerID string
	PathID   int
}

// Engine is the round/turn resolution engine for one match at a time.
//
// It is a cooperative state machine with a single logical writer: every
// mutation happens under the engine lock, and suspensions (dramatic
// pauses, modal acknowledgements) release the lock with the phase set to
// PAUSED so no other mutation can slip in.
type Engine struct {
	logger       *zap.Logger
	mu           sync.Mutex
	rng          *rand.Rand
	clock        Clock
	presenter    Presenter
	achievements Achievements
	policy       Policy
	manualAck    bool

	state *GameState
	seq   *rules.Sequencer
	deck  *Deck
	board *board.Board

	pendingAck   *suspension
	terminalSent bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithPresenter wires the presentation hooks.
func WithPresenter(p Presenter) Option {
	return func(e *Engine) {
		if p != nil {
			e.presenter = p
		}
	}
}

// WithPolicy replaces the default AI policy.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithClock replaces the pacing clock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithAchievements wires the external achievements store.
func WithAchievements(a Achievements) Option {
	return func(e *Engine) { e.achievements = a }
}

// WithSeed makes dealing and board generation deterministic.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithManualAcknowledge makes modal prompts block until Acknowledge is
// called. Without it prompts resolve immediately, which is what headless
// runs and tests want.
func WithManualAcknowledge() Option {
	return func(e *Engine) { e.manualAck = true }
}

// NewEngine creates an engine with no match in progress.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger:    logger,
		clock:     realClock{},
		presenter: NopPresenter{},
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	e.policy = NewGreedyPolicy(e.rng)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetPresenter swaps the presentation hooks. Intended for wiring the UI
// bridge after construction.
func (e *Engine) SetPresenter(p Presenter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p != nil {
		e.presenter = p
	}
}

// StartMatch deals the opening hands and begins play. A dealing failure
// aborts the whole match: the previous state is discarded and the caller
// returns to its entry menu.
func (e *Engine) StartMatch(ctx context.Context, cfg MatchConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != nil && e.state.Phase != rules.PhaseGameOver {
		return fmt.Errorf("a match is already in progress")
	}

	paths := cfg.Paths
	if paths <= 0 {
		paths = defaultPaths
	}
	winPos := cfg.WinPosition
	if winPos <= 1 {
		winPos = defaultWinPosition
	}
	if len(cfg.Players) < 2 || len(cfg.Players) > paths {
		return fmt.Errorf("match needs between 2 and %d players, got %d", paths, len(cfg.Players))
	}

	st := &GameState{
		MatchID:       uuid.NewString(),
		Turn:          1,
		Phase:         rules.PhasePlaying,
		Mode:          cfg.Mode,
		Story:         cfg.Story,
		Players:       make(map[string]*Player, len(cfg.Players)),
		RevealedHands: make(map[string]bool),
	}
	if cfg.Story == BattleFinalBoss {
		st.NecroHearts = finalBossHearts
	}
	if cfg.Story == BattleInversus {
		st.InversusMode = true
	}

	deck := NewDeck(e.rng, cfg.Story)
	for i, pc := range cfg.Players {
		if pc.ID == "" {
			return fmt.Errorf("player %d has no id", i)
		}
		if _, dup := st.Players[pc.ID]; dup {
			return fmt.Errorf("duplicate player id %q", pc.ID)
		}
		p := &Player{
			ID:         pc.ID,
			Name:       pc.Name,
			Team:       pc.Team,
			Human:      pc.Human,
			Position:   1,
			PathID:     i % paths,
			PulaTarget: -1,
		}
		for n := 0; n < handValueTarget; n++ {
			c := deck.Deal(CardValue)
			if c == nil {
				return e.abortStart(pc.ID)
			}
			p.Hand = append(p.Hand, c)
		}
		for n := 0; n < handEffectTarget; n++ {
			c := deck.Deal(CardEffect)
			if c == nil {
				return e.abortStart(pc.ID)
			}
			p.Hand = append(p.Hand, c)
		}
		if p.Resto = deck.Deal(CardValue); p.Resto == nil {
			return e.abortStart(pc.ID)
		}
		st.Players[pc.ID] = p
		st.Order = append(st.Order, pc.ID)
	}
	st.CurrentPlayer = st.Order[0]

	e.state = st
	e.deck = deck
	e.board = board.New(paths, winPos, e.rng)
	e.seq = rules.NewSequencer(st.Order, st.Order[0])
	e.terminalSent = false

	e.logger.Info("match started",
		zap.String("match_id", st.MatchID),
		zap.Int("players", len(st.Order)),
		zap.String("mode", st.Mode.String()),
		zap.String("battle", string(st.Story)),
	)
	e.presenter.UpdateLog("A partida começou!")
	e.presenter.RenderAll(e.viewLocked())

	if cur := st.Player(st.CurrentPlayer); !cur.Human {
		e.runPolicy(ctx, cur)
		return e.advanceTurn(ctx)
	}
	return nil
}

// abortStart is the unrecoverable-dealing-failure path of match start.
func (e *Engine) abortStart(playerID string) error {
	e.state = nil
	e.deck = nil
	e.seq = nil
	e.logger.Error("deck exhausted during initial deal, aborting match",
		zap.String("player", playerID),
	)
	e.presenter.UpdateLog("Erro ao distribuir as cartas. A partida foi cancelada.")
	return fmt.Errorf("deck exhausted while dealing to %s", playerID)
}

// PlayCard applies one card from the current player's hand to the pending
// round. Value cards are limited to one per turn; effect cards replace any
// earlier effect of the same category on the target.
func (e *Engine) PlayCard(playerID, cardID string, target Target) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playCardLocked(playerID, cardID, target)
}

func (e *Engine) playCardLocked(playerID, cardID string, target Target) error {
	st := e.state
	if st == nil {
		return fmt.Errorf("no match in progress")
	}
	if st.Phase != rules.PhasePlaying {
		return fmt.Errorf("cannot play a card during %s", st.Phase)
	}
	if e.seq.Current() != playerID {
		return fmt.Errorf("it is not %s's turn", playerID)
	}
	p := st.Player(playerID)
	if p == nil || p.Eliminated {
		return fmt.Errorf("player %s cannot act", playerID)
	}

	var card *Card
	for _, c := range p.Hand {
		if c.ID == cardID {
			card = c
			break
		}
	}
	if card == nil {
		return fmt.Errorf("card %s is not in %s's hand", cardID, playerID)
	}

	if card.Kind == CardValue {
		if p.playedValueThisTurn {
			return fmt.Errorf("%s already played a value card this turn", playerID)
		}
		p.removeFromHand(cardID)
		p.PlayedValue = append(p.PlayedValue, card)
		p.playedValueThisTurn = true
		e.presenter.UpdateLog(fmt.Sprintf("%s jogou a carta %d.", p.Name, card.Value))
	} else {
		tgtID := target.PlayerID
		if tgtID == "" {
			tgtID = playerID
		}
		tgt := st.Player(tgtID)
		if tgt == nil || tgt.Eliminated {
			return fmt.Errorf("invalid effect target %q", tgtID)
		}
		if err := e.applyEffectCard(tgt, card, target); err != nil {
			return err
		}
		p.removeFromHand(cardID)
		p.PlayedEffect = append(p.PlayedEffect, card)
		e.presenter.UpdateLog(fmt.Sprintf("%s jogou %s em %s.", p.Name, card.Name, tgt.Name))
	}

	p.playedThisTurn = true
	e.seq.RecordPlay()
	e.presenter.PlaySoundEffect("card-play")
	e.presenter.RenderAll(e.viewLocked())
	return nil
}

// applyEffectCard records a card's effect on the target player. A new
// effect replaces the target's previous effect of the same category, which
// is how Mais/Menos (and Sobe/Desce) stay mutually exclusive.
func (e *Engine) applyEffectCard(tgt *Player, card *Card, target Target) error {
	if se, ok := effects.ScoreEffectFromCard(card.Name); ok {
		tgt.Score = se
		return nil
	}
	if me, ok := effects.MovementEffectFromCard(card.Name); ok {
		if me == effects.MovePula {
			if target.PathID < 0 || target.PathID >= e.board.NumPaths() {
				return fmt.Errorf("pula needs a valid destination path, got %d", target.PathID)
			}
			tgt.PulaTarget = target.PathID
		}
		tgt.Movement = me
		return nil
	}
	if card.Name == cardReversus {
		// Modifier on a modifier: invert whichever effect the target is
		// already carrying, score first.
		switch {
		case tgt.Score != effects.ScoreNone:
			tgt.Score = tgt.Score.Inverted()
		case tgt.Movement == effects.MoveSobe || tgt.Movement == effects.MoveDesce:
			tgt.Movement = tgt.Movement.Inverted()
		default:
			return fmt.Errorf("reversus needs a target with an active effect")
		}
		return nil
	}
	return fmt.Errorf("unknown effect card %q", card.Name)
}

// Pass ends the current player's turn. A turn with no plays counts toward
// the round's consecutive pass total.
func (e *Engine) Pass(ctx context.Context, playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	if st == nil {
		return fmt.Errorf("no match in progress")
	}
	if st.Phase != rules.PhasePlaying {
		return fmt.Errorf("cannot pass during %s", st.Phase)
	}
	if e.seq.Current() != playerID {
		return fmt.Errorf("it is not %s's turn", playerID)
	}
	p := st.Player(playerID)
	if p == nil || p.Eliminated {
		return fmt.Errorf("player %s cannot act", playerID)
	}

	if !p.playedThisTurn {
		e.seq.RecordPass()
		e.presenter.UpdateLog(fmt.Sprintf("%s passou a vez.", p.Name))
	}
	return e.advanceTurn(ctx)
}

// Acknowledge resumes the pending modal prompt, if any. Safe to call at
// any time; duplicate clicks are absorbed by the suspension itself.
func (e *Engine) Acknowledge() {
	e.mu.Lock()
	s := e.pendingAck
	e.mu.Unlock()
	if s != nil {
		s.resume()
	}
}

// UseXaelAbility spends the challenger duel's special ability: reveal
// every opponent's hand for the rest of the round. Only the first-seated
// player has it, and it recharges over that player's next turns.
func (e *Engine) UseXaelAbility(playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	if st == nil || st.Story != BattleXael {
		return fmt.Errorf("ability not available in this match")
	}
	if st.Phase != rules.PhasePlaying {
		return fmt.Errorf("cannot use the ability during %s", st.Phase)
	}
	if len(st.Order) == 0 || st.Order[0] != playerID {
		return fmt.Errorf("player %s does not have this ability", playerID)
	}
	if st.XaelCooldown > 0 {
		return fmt.Errorf("ability recharging, %d turns left", st.XaelCooldown)
	}
	for _, id := range st.Order {
		if id != playerID {
			st.RevealedHands[id] = true
		}
	}
	st.XaelCooldown = xaelAbilityCooldown
	e.presenter.PlaySoundEffect("xael-ability")
	e.presenter.UpdateLog("As mãos dos adversários foram reveladas!")
	e.presenter.RenderAll(e.viewLocked())
	return nil
}

// advanceTurn hands control to the next active player, running AI turns
// to completion until a human is on turn, the round resolves, or the
// match ends.
func (e *Engine) advanceTurn(ctx context.Context) error {
	st := e.state
	for {
		if st.Phase != rules.PhasePlaying {
			return nil
		}
		adv := e.seq.Advance(st.IsEliminated)
		if adv.RoundOver {
			if adv.Forced {
				e.logger.Warn("no active player found during turn advance, forcing round end",
					zap.String("match_id", st.MatchID),
				)
			}
			st.Phase = rules.PhaseResolution
			return e.resolveRound(ctx)
		}
		if adv.LastCall {
			e.presenter.AnnounceEffect("Última chamada!", "warning", 2*time.Second)
			e.presenter.UpdateLog("Última chamada! Mais uma volta de passes encerra a rodada.")
		}

		cur := st.Player(adv.Next)
		cur.playedValueThisTurn = false
		cur.playedThisTurn = false
		if st.Story == BattleXael && adv.Next == st.Order[0] && st.XaelCooldown > 0 {
			st.XaelCooldown--
		}
		st.CurrentPlayer = adv.Next
		e.presenter.RenderAll(e.viewLocked())

		if cur.Human {
			// Suspended: the human acts through PlayCard/Pass.
			return nil
		}
		e.runPolicy(ctx, cur)
	}
}

// runPolicy lets the AI policy take one full turn. Any failure is logged
// and degrades to an automatic pass so the match always progresses.
func (e *Engine) runPolicy(ctx context.Context, p *Player) {
	act := &aiActor{engine: e, playerID: p.ID}
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("policy panic: %v", r)
			}
		}()
		return e.policy.TakeTurn(ctx, e.state, p.ID, act)
	}()
	if err != nil {
		e.logger.Warn("AI policy failed, treating turn as a pass",
			zap.String("player", p.ID),
			zap.Error(err),
		)
	}
	if !p.playedThisTurn {
		e.seq.RecordPass()
	}
}

// pause suspends the engine for a fixed-duration dramatic beat. The lock
// is released and the phase reads PAUSED for the duration.
func (e *Engine) pause(ctx context.Context, d time.Duration) {
	st := e.state
	prev := st.Phase
	st.Phase = rules.PhasePaused
	e.mu.Unlock()
	_ = e.clock.Sleep(ctx, d)
	e.mu.Lock()
	st.Phase = prev
}

// awaitAck shows a modal prompt and, in manual mode, suspends until the
// UI acknowledges it. Exactly one resume per suspension.
func (e *Engine) awaitAck(ctx context.Context, text, style string) {
	e.presenter.AnnounceEffect(text, style, 0)
	if !e.manualAck {
		return
	}
	s := newSuspension()
	e.pendingAck = s
	st := e.state
	prev := st.Phase
	st.Phase = rules.PhasePaused
	e.mu.Unlock()
	_ = s.wait(ctx)
	e.mu.Lock()
	st.Phase = prev
	e.pendingAck = nil
}
