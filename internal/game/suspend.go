package game

import (
	"context"
	"sync"
	"time"
)

// suspension is a one-shot wait point. Each suspension registers exactly
// one resumption: extra resume calls are no-ops, so a duplicate UI click
// or a racing timer can never double-resume the engine.
type suspension struct {
	once sync.Once
	ch   chan struct{}
}

func newSuspension() *suspension {
	return &suspension{ch: make(chan struct{})}
}

func (s *suspension) resume() {
	s.once.Do(func() { close(s.ch) })
}

func (s *suspension) wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Clock supplies the fixed-duration dramatic pauses used for pacing.
// Tests swap in an instant clock so resolution runs without real sleeps.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type instantClock struct{}

func (instantClock) Sleep(context.Context, time.Duration) error { return nil }
