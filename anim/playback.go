// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package anim

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefFrameInterval is the default tick interval
// of the playback loop,
// roughly 60 frames per second.
const DefFrameInterval = 16 * time.Millisecond

// Play starts the playback
// from the current sequence index.
// The frames are rendered by Tick
// until the end of the movie,
// or until a navigation command
// stops the playback.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache.Len() < 2 {
		return fmt.Errorf("%w: the movie has no transitions", ErrInvalidNavigation)
	}
	c.cancel()

	if c.cur >= c.cache.Len()-1 {
		c.cur = 0
	}

	// offset the start so the global progress
	// matches the current position
	p := float64(c.cur) / float64(c.cache.Len()-1)
	c.playStart = c.clock.Now().Add(-time.Duration(p * float64(c.total())))
	c.setState(Playing, c.cur)
	return nil
}

// Pause stops the playback,
// keeping the current frame on the scene.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Playing {
		return
	}
	c.setState(Idle, c.cur)
}

// Stop stops the playback
// and rewinds the movie to its first tree.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel()
	e, err := c.cache.Entry(0)
	if err != nil {
		return err
	}
	c.set.Instant(e)
	c.setState(Idle, 0)
	return nil
}

// total is the duration of the whole movie:
// the per-transition duration
// times the number of transitions.
func (c *Controller) total() time.Duration {
	return c.style.Duration() * time.Duration(c.cache.Len()-1)
}

func (c *Controller) tickPlayback(now time.Time) error {
	p := float64(now.Sub(c.playStart)) / float64(c.total())
	if p >= 1 {
		// end of movie
		last := c.cache.Len() - 1
		e, err := c.cache.Entry(last)
		if err != nil {
			return err
		}
		c.set.Instant(e)
		c.setState(Idle, last)
		return nil
	}
	if p < 0 {
		p = 0
	}

	cursor := p * float64(c.cache.Len()-1)
	from := int(cursor)
	fromE, err := c.cache.Entry(from)
	if err != nil {
		return err
	}
	toE, err := c.cache.Entry(from + 1)
	if err != nil {
		return err
	}
	c.set.Interpolated(fromE, toE, c.easing()(cursor-float64(from)))
	c.setState(Playing, from)
	return nil
}

// A Loop drives a controller
// with a wall-clock ticker,
// standing in for the animation-frame callback
// of an interactive host.
//
// If a frame render takes longer than a tick
// the pending ticks are dropped,
// never queued.
type Loop struct {
	ctrl     *Controller
	interval time.Duration
	log      *zap.Logger
}

// NewLoop creates a playback loop
// over a controller.
// A non-positive interval
// uses the default frame interval,
// and a nil logger disables logging.
func NewLoop(c *Controller, interval time.Duration, log *zap.Logger) *Loop {
	if interval <= 0 {
		interval = DefFrameInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		ctrl:     c,
		interval: interval,
		log:      log,
	}
}

// Run ticks the controller
// until the context is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	tick := time.NewTicker(l.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-tick.C:
			if err := l.ctrl.Tick(now); err != nil {
				l.log.Warn("frame failed", zap.Error(err))
			}
		}
	}
}
