package game

import (
	"context"
	"time"
)

// Presenter receives the engine's presentation hooks. All methods are
// fire-and-forget: the engine never reads anything back and never waits
// for rendering to complete.
type Presenter interface {
	// UpdateLog appends one entry to the narrative log.
	UpdateLog(entry string)
	// PlaySoundEffect requests a sound cue by name.
	PlaySoundEffect(name string)
	// AnnounceEffect shows a transient banner.
	AnnounceEffect(text, style string, duration time.Duration)
	// RenderAll delivers a fresh snapshot after every externally visible
	// state change. Called with the engine lock held: implementations must
	// not call back into the engine.
	RenderAll(view *GameView)
	// StoryWinLoss reports a story-mode terminal result. Emitted exactly
	// once per terminal game end.
	StoryWinLoss(battle string, won bool)
}

// NopPresenter discards every hook.
type NopPresenter struct{}

func (NopPresenter) UpdateLog(string)                             {}
func (NopPresenter) PlaySoundEffect(string)                       {}
func (NopPresenter) AnnounceEffect(string, string, time.Duration) {}
func (NopPresenter) RenderAll(*GameView)                          {}
func (NopPresenter) StoryWinLoss(string, bool)                    {}

// Achievements is the external persistence collaborator for free-play
// milestones. Implementations own their storage; the engine only fires
// grants.
type Achievements interface {
	GrantFirstWin(ctx context.Context, playerName string) error
}
