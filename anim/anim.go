// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package anim implements the animation controller
// of the tree movie.
//
// The controller owns the rendering surface,
// drives one render per user-visible step,
// and coordinates the staged animations
// across the renderers.
// It is driven by an external frame clock
// through Tick.
package anim

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/phylomovie/phylomovie/delta"
	"github.com/phylomovie/phylomovie/ease"
	"github.com/phylomovie/phylomovie/layout"
	"github.com/phylomovie/phylomovie/render"
	"github.com/phylomovie/phylomovie/style"
)

// ErrInvalidNavigation is returned when a navigation command
// falls outside the movie sequence.
var ErrInvalidNavigation = errors.New("invalid navigation")

// ErrStaleVersion indicates an animation
// cancelled by a later navigation.
// It is normal during rapid scrubbing
// and is swallowed by the controller.
var ErrStaleVersion = errors.New("stale animation state")

// A State is the top level state of the controller.
type State int

// Controller states.
const (
	// Idle: no animation in flight.
	Idle State = iota

	// Playing: the playback loop drives the frames.
	Playing

	// Animating: a staged animation is in flight.
	Animating
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Animating:
		return "animating"
	}
	return "unknown"
}

// An animation is a staged transition in flight.
// The stages run sequentially;
// each stage is advanced by the frame clock.
type animation struct {
	version uint64
	stages  []*render.Stage
	idx     int
	started time.Time
}

// A Controller holds the current position
// in the movie sequence
// and coordinates the renders
// triggered by navigation commands
// and by the playback loop.
//
// The controller is safe for concurrent use;
// a single frame clock must drive Tick.
type Controller struct {
	mu sync.Mutex

	cache   *layout.Cache
	set     *render.Set
	comp    *render.Set
	anchors []int
	style   *style.Bundle
	clock   Clock
	log     *zap.Logger

	state   State
	cur     int
	version uint64

	anim      *animation
	playStart time.Time

	// Notify, if set,
	// is called with the state
	// and the current sequence index
	// after every observable change.
	Notify func(state State, index int)

	// Easing used by the staged animations
	// and the playback frames.
	// Defaults to a sinusoidal ease-in-out.
	Easing ease.Func
}

// NewController creates an animation controller
// over a layout cache and a renderer set.
// A nil clock uses the wall clock,
// and a nil logger disables logging.
func NewController(cache *layout.Cache, set *render.Set, st *style.Bundle, clock Clock, log *zap.Logger) *Controller {
	if clock == nil {
		clock = wallClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		cache: cache,
		set:   set,
		style: st,
		clock: clock,
		log:   log,
	}
}

// State returns the state of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the current sequence index.
func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

// Len returns the number of trees
// of the movie sequence.
func (c *Controller) Len() int {
	return c.cache.Len()
}

// Render draws the current tree
// with no transition.
// It is used on the initial render.
func (c *Controller) Render() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.cache.Entry(c.cur)
	if err != nil {
		return err
	}
	c.cancel()
	c.set.Instant(e)
	c.setState(Idle, c.cur)
	return nil
}

// GoTo navigates to a sequence index,
// animating the transition
// from the current tree.
// A navigation received mid-animation
// settles the in-flight stage at its final state
// and abandons the rest.
func (c *Controller) GoTo(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goTo(i)
}

// Forward navigates to the next tree.
func (c *Controller) Forward() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goTo(c.cur + 1)
}

// Backward navigates to the previous tree.
func (c *Controller) Backward() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goTo(c.cur - 1)
}

func (c *Controller) goTo(i int) error {
	if i < 0 || i >= c.cache.Len() {
		return fmt.Errorf("%w: sequence index %d of %d", ErrInvalidNavigation, i, c.cache.Len())
	}
	c.cancel()
	if i == c.cur && c.set.Current() != nil {
		return nil
	}

	to, err := c.cache.Entry(i)
	if err != nil {
		return err
	}
	if c.set.Current() == nil {
		c.set.Instant(to)
		c.setState(Idle, i)
		return nil
	}
	from, err := c.cache.Entry(c.cur)
	if err != nil {
		return err
	}

	c.set.Prune(from, to)
	d := delta.Compare(to.Tree, from.Tree)
	order := stageOrder(d)
	dur := c.style.Duration() / time.Duration(len(order))

	a := &animation{
		version: c.version,
		started: c.clock.Now(),
	}
	for _, ph := range order {
		st := c.set.Stage(d, from, to, ph, dur, c.easing())
		if st.Empty() {
			st.Finish()
			continue
		}
		a.stages = append(a.stages, st)
	}
	if len(a.stages) == 0 {
		c.setState(Idle, i)
		return nil
	}
	c.anim = a
	c.setState(Animating, i)
	return nil
}

// ScrubTo navigates to a fractional position
// of the movie,
// rendering the interpolated frame directly,
// with no staged animation.
func (c *Controller) ScrubTo(p float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p < 0 || p > 1 {
		return fmt.Errorf("%w: fraction %.3f", ErrInvalidNavigation, p)
	}
	c.cancel()

	cursor := p * float64(c.cache.Len()-1)
	from := int(cursor)
	if from >= c.cache.Len()-1 {
		last, err := c.cache.Entry(c.cache.Len() - 1)
		if err != nil {
			return err
		}
		c.set.Instant(last)
		c.setState(Idle, c.cache.Len()-1)
		return nil
	}

	fromE, err := c.cache.Entry(from)
	if err != nil {
		return err
	}
	toE, err := c.cache.Entry(from + 1)
	if err != nil {
		return err
	}
	c.set.Interpolated(fromE, toE, c.easing()(cursor-float64(from)))
	c.setState(Idle, from)
	return nil
}

// Tick advances the controller
// to the given frame timestamp.
// During a staged animation
// it advances the in-flight stage;
// during playback it renders
// the interpolated frame of the timestamp.
// Idle ticks are no-ops.
func (c *Controller) Tick(now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Animating:
		if err := c.tickStage(now); err != nil {
			if errors.Is(err, ErrStaleVersion) {
				c.log.Debug("stale animation dropped", zap.Uint64("version", c.version))
				return nil
			}
			return err
		}
	case Playing:
		return c.tickPlayback(now)
	}
	return nil
}

func (c *Controller) tickStage(now time.Time) error {
	a := c.anim
	if a == nil {
		c.setState(Idle, c.cur)
		return nil
	}
	if a.version != c.version {
		c.anim = nil
		return ErrStaleVersion
	}

	if !a.stages[a.idx].Advance(now.Sub(a.started)) {
		return nil
	}
	a.idx++
	a.started = now
	if a.idx >= len(a.stages) {
		c.anim = nil
		c.setState(Idle, c.cur)
	}
	return nil
}

// cancel settles any in-flight staged animation
// at its final state,
// stops the playback,
// and bumps the state version.
func (c *Controller) cancel() {
	c.version++
	if c.anim != nil {
		for _, st := range c.anim.stages[c.anim.idx:] {
			st.Finish()
		}
		c.anim = nil
	}
	if c.state == Playing {
		c.state = Idle
	}
}

// setState records a state change
// and notifies the observer.
func (c *Controller) setState(s State, i int) {
	if c.state == s && c.cur == i {
		return
	}
	c.state = s
	c.cur = i
	c.compare()
	if c.Notify != nil {
		c.Notify(s, i)
	}
}

func (c *Controller) easing() ease.Func {
	if c.Easing != nil {
		return c.Easing
	}
	return ease.InOutSine
}

// stageOrder returns the active phases
// of a staged transition in their running order.
// When structure only shrinks
// the updates run before the exits,
// so elements about to disappear
// do not jump;
// in every other case the order is
// exit, enter, update.
func stageOrder(d *delta.Diff) []render.Phase {
	hasExit, hasEnter, hasUpdate := d.HasExit(), d.HasEnter(), d.HasUpdate()
	if hasExit && hasUpdate && !hasEnter {
		return []render.Phase{render.Update, render.Exit}
	}

	var order []render.Phase
	if hasExit {
		order = append(order, render.Exit)
	}
	if hasEnter {
		order = append(order, render.Enter)
	}
	if hasUpdate {
		order = append(order, render.Update)
	}
	if len(order) == 0 {
		order = []render.Phase{render.Update}
	}
	return order
}

// WriteSVG writes the rendering surface
// as an SVG document.
func (c *Controller) WriteSVG(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set.Scene().WriteSVG(w)
}

// Surface returns the dimensions
// of the rendering surface.
func (c *Controller) Surface() (width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sc := c.set.Scene()
	return sc.Width, sc.Height
}

// SetComparison attaches a second renderer set
// used by the comparison mode:
// while the main set shows the current frame,
// the comparison set shows the anchor tree
// that follows the current source anchor,
// with a shared style
// and an independent scene.
// The anchors are the sequence indices
// of the anchor trees, in increasing order;
// nil anchors treat every frame as an anchor.
// A nil set disables the mode.
func (c *Controller) SetComparison(set *render.Set, anchors []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comp = set
	c.anchors = anchors
	c.compare()
}

// nextAnchor returns the sequence index
// of the anchor that follows
// the source anchor of the current frame.
// At the last anchor it returns that anchor.
func (c *Controller) nextAnchor() int {
	if len(c.anchors) == 0 {
		j := c.cur + 1
		if j >= c.cache.Len() {
			j = c.cur
		}
		return j
	}

	a := sort.SearchInts(c.anchors, c.cur+1) - 1
	if a < 0 {
		a = 0
	}
	if a+1 < len(c.anchors) {
		a++
	}
	return c.anchors[a]
}

func (c *Controller) compare() {
	if c.comp == nil {
		return
	}
	j := c.nextAnchor()
	e, err := c.cache.Entry(j)
	if err != nil {
		c.log.Warn("comparison render failed", zap.Int("index", j), zap.Error(err))
		return
	}
	c.comp.Instant(e)
}
