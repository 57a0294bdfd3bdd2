// Package typing implements the hero typewriter animation: a timed state
// machine that cycles through a fixed list of phrases, typing each one out
// forward and then deleting it, looping forever.
package typing

import (
	"errors"
	"fmt"
	"time"
)

// Phase identifies where the animation is within its four-step cycle.
type Phase int

const (
	// Extending appends one rune to the displayed prefix per tick.
	Extending Phase = iota
	// PausedAfterExtend holds the complete phrase on screen.
	PausedAfterExtend
	// Retracting removes one rune from the displayed prefix per tick.
	Retracting
	// PausedAfterRetract holds the empty line before the next phrase.
	PausedAfterRetract
)

func (p Phase) String() string {
	switch p {
	case Extending:
		return "extending"
	case PausedAfterExtend:
		return "paused-after-extend"
	case Retracting:
		return "retracting"
	case PausedAfterRetract:
		return "paused-after-retract"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Timings are the delays between ticks in each phase. They are presentation
// tuning values, not invariants; any non-positive field falls back to its
// default.
type Timings struct {
	Type      time.Duration // delay after appending a rune
	Delete    time.Duration // delay after removing a rune
	HoldFull  time.Duration // pause with the complete phrase shown
	HoldEmpty time.Duration // pause with the line empty
}

// DefaultTimings returns the stock pacing of the hero animation.
func DefaultTimings() Timings {
	return Timings{
		Type:      150 * time.Millisecond,
		Delete:    50 * time.Millisecond,
		HoldFull:  time.Second,
		HoldEmpty: 500 * time.Millisecond,
	}
}

func (t Timings) withDefaults() Timings {
	def := DefaultTimings()
	if t.Type <= 0 {
		t.Type = def.Type
	}
	if t.Delete <= 0 {
		t.Delete = def.Delete
	}
	if t.HoldFull <= 0 {
		t.HoldFull = def.HoldFull
	}
	if t.HoldEmpty <= 0 {
		t.HoldEmpty = def.HoldEmpty
	}
	return t
}

// Frame is the observable output of one tick: the text to draw and whether
// the animation is currently deleting it.
type Frame struct {
	Text       string `json:"text"`
	Retracting bool   `json:"retracting"`
}

// ErrNoPhrases is returned by New when the phrase list is empty or contains
// an empty phrase.
var ErrNoPhrases = errors.New("typing: phrase list must contain at least one non-empty phrase")

// Controller owns the animation state: which phrase is current, how much of
// it is shown, and which phase the cycle is in. It is not safe for concurrent
// use; the caller (an Animator goroutine, a Bubble Tea model) serializes
// Step calls.
type Controller struct {
	phrases []string
	runes   [][]rune
	timings Timings

	index int
	shown int // rune count of the displayed prefix
	phase Phase
}

// New builds a controller over a fixed, ordered phrase list. The list is
// copied; later mutation of the argument does not affect the animation.
func New(phrases []string, timings Timings) (*Controller, error) {
	if len(phrases) == 0 {
		return nil, ErrNoPhrases
	}
	c := &Controller{
		phrases: make([]string, len(phrases)),
		runes:   make([][]rune, len(phrases)),
		timings: timings.withDefaults(),
	}
	for i, p := range phrases {
		if p == "" {
			return nil, ErrNoPhrases
		}
		c.phrases[i] = p
		c.runes[i] = []rune(p)
	}
	return c, nil
}

// Step applies exactly one transition of the cycle and reports how long to
// wait before the next tick. The pause phases mutate nothing visible; their
// tick just moves the cycle along.
func (c *Controller) Step() time.Duration {
	switch c.phase {
	case Extending:
		c.shown++
		if c.shown == len(c.runes[c.index]) {
			c.phase = PausedAfterExtend
			return c.timings.HoldFull
		}
		return c.timings.Type
	case PausedAfterExtend:
		c.phase = Retracting
		return c.timings.Delete
	case Retracting:
		c.shown--
		if c.shown == 0 {
			c.phase = PausedAfterRetract
			c.index = (c.index + 1) % len(c.runes)
			return c.timings.HoldEmpty
		}
		return c.timings.Delete
	default: // PausedAfterRetract
		c.phase = Extending
		return c.timings.Type
	}
}

// Text returns the displayed prefix of the current phrase.
func (c *Controller) Text() string {
	return string(c.runes[c.index][:c.shown])
}

// Phase returns the current phase of the cycle.
func (c *Controller) Phase() Phase { return c.phase }

// Index returns the position of the current phrase in the list.
func (c *Controller) Index() int { return c.index }

// Phrase returns the current full phrase.
func (c *Controller) Phrase() string { return c.phrases[c.index] }

// Frame snapshots what the presentation layer needs to draw.
func (c *Controller) Frame() Frame {
	return Frame{
		Text:       c.Text(),
		Retracting: c.phase == Retracting,
	}
}
