package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mgpai22/substyle/internal/cuesync"
	"github.com/mgpai22/substyle/internal/logging"
	"github.com/mgpai22/substyle/internal/subtitle"
)

// ErrEnded is returned by a TimeSource once playback has finished
var ErrEnded = errors.New("playback ended")

const DefaultPollInterval = 100 * time.Millisecond

// TimeSource reports the current playback position in milliseconds
type TimeSource interface {
	Position() (int64, error)
}

// Renderer displays subtitle text. An empty text hides the overlay.
type Renderer interface {
	Render(text string, style Style) error
}

// Style is an opaque payload forwarded to the renderer
type Style map[string]any

type Player struct {
	source   TimeSource
	renderer Renderer
	interval time.Duration
	logger   *logging.Logger

	engine atomic.Pointer[cuesync.Engine]

	mu         sync.Mutex
	style      Style
	styleDirty bool
	shown      *subtitle.Cue
	rendered   bool
}

type Option func(*Player)

func WithInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithLogger(l *logging.Logger) Option {
	return func(p *Player) {
		p.logger = logging.OrNop(l)
	}
}

func WithStyle(s Style) Option {
	return func(p *Player) {
		p.style = s
	}
}

func NewPlayer(source TimeSource, renderer Renderer, opts ...Option) *Player {
	p := &Player{
		source:   source,
		renderer: renderer,
		interval: DefaultPollInterval,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load replaces the engine with one built from cues
func (p *Player) Load(cues []subtitle.Cue) {
	p.engine.Store(cuesync.New(cues))
	p.logger.Debugw("engine rebuilt", "cues", len(cues))
}

// SetStyle changes the style; the next tick re-renders the current cue
func (p *Player) SetStyle(style Style) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.style = style
	p.styleDirty = true
}

// Tick polls the time source once and renders if the visible cue changed
func (p *Player) Tick() error {
	pos, err := p.source.Position()
	if err != nil {
		return err
	}

	var cue *subtitle.Cue
	if engine := p.engine.Load(); engine != nil {
		cue, err = engine.ActiveCue(pos)
		if err != nil {
			return fmt.Errorf("time source reported invalid position: %w", err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rendered && !p.styleDirty && sameCue(p.shown, cue) {
		return nil
	}

	text := ""
	if cue != nil {
		text = cue.Text
	}
	if err := p.renderer.Render(text, p.style); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	p.shown = cue
	p.rendered = true
	p.styleDirty = false
	p.logger.Debugw("cue changed", "position_ms", pos, "text", text)
	return nil
}

// Run ticks at the configured interval until ctx is cancelled or the time
// source ends. Reaching the end is not an error.
func (p *Player) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.Tick(); err != nil {
			if errors.Is(err, ErrEnded) {
				p.logger.Debugw("time source ended")
				return p.hide()
			}
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// clears the overlay if a cue is still showing
func (p *Player) hide() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shown == nil {
		return nil
	}
	if err := p.renderer.Render("", p.style); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	p.shown = nil
	return nil
}

func sameCue(a, b *subtitle.Cue) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
