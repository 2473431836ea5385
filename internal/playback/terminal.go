package playback

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mgpai22/substyle/internal/subtitle"
)

// TerminalRenderer prints each subtitle change as a line prefixed with the
// playback position. Styles are not interpreted.
type TerminalRenderer struct {
	mu     sync.Mutex
	out    io.Writer
	source TimeSource
}

// NewTerminalRenderer writes to out; source, if set, stamps each line
func NewTerminalRenderer(out io.Writer, source TimeSource) *TerminalRenderer {
	return &TerminalRenderer{out: out, source: source}
}

func (r *TerminalRenderer) Render(text string, _ Style) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := ""
	if r.source != nil {
		if pos, err := r.source.Position(); pos >= 0 && (err == nil || errors.Is(err, ErrEnded)) {
			prefix = "[" + subtitle.FormatSRTTimestamp(pos) + "] "
		}
	}

	if text == "" {
		_, err := fmt.Fprintf(r.out, "%s-\n", prefix)
		return err
	}

	indent := strings.Repeat(" ", len(prefix))
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lead := indent
		if i == 0 {
			lead = prefix
		}
		if _, err := fmt.Fprintf(r.out, "%s%s\n", lead, line); err != nil {
			return err
		}
	}
	return nil
}
