// Package cuesync resolves which cue is visible at a playback position.
//
// The Engine keeps a cursor at the last matched cue so forward playback is
// answered from the cursor or its successor, and falls back to a binary
// search over the whole collection after a seek.
package cuesync

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/mgpai22/substyle/internal/subtitle"
)

var ErrNegativeTime = errors.New("playback time must not be negative")

type Engine struct {
	mu     sync.Mutex
	cues   []subtitle.Cue
	cursor int
}

// New builds an engine over a copy of cues, sorted by start time. The sort
// is stable, so equal starts keep their relative order.
func New(cues []subtitle.Cue) *Engine {
	cues = slices.Clone(cues)
	slices.SortStableFunc(cues, func(a, b subtitle.Cue) int {
		switch {
		case a.StartTime < b.StartTime:
			return -1
		case a.StartTime > b.StartTime:
			return 1
		default:
			return 0
		}
	})

	return &Engine{cues: cues}
}

// ActiveCue returns the cue whose interval contains timeMs, or nil when
// none does. When cues overlap, any containing cue may be returned, not
// necessarily the earliest one.
func (e *Engine) ActiveCue(timeMs int64) (*subtitle.Cue, error) {
	if timeMs < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeTime, timeMs)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cursor < len(e.cues) {
		if e.cues[e.cursor].Contains(timeMs) {
			return e.cueAt(e.cursor), nil
		}

		next := e.cursor + 1
		if next < len(e.cues) && e.cues[next].Contains(timeMs) {
			e.cursor = next
			return e.cueAt(next), nil
		}
	}

	if idx := e.search(timeMs); idx >= 0 {
		e.cursor = idx
		return e.cueAt(idx), nil
	}

	return nil, nil
}

func (e *Engine) search(timeMs int64) int {
	left, right := 0, len(e.cues)-1

	for left <= right {
		mid := left + (right-left)/2
		cue := e.cues[mid]

		switch {
		case timeMs < cue.StartTime:
			right = mid - 1
		case timeMs > cue.EndTime:
			left = mid + 1
		default:
			return mid
		}
	}

	return -1
}

func (e *Engine) cueAt(i int) *subtitle.Cue {
	c := e.cues[i]
	return &c
}

// Cursor is the index of the last matched cue in sorted order
func (e *Engine) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

func (e *Engine) Len() int {
	return len(e.cues)
}

// Cues returns a copy of the sorted collection
func (e *Engine) Cues() []subtitle.Cue {
	return slices.Clone(e.cues)
}
