package main

import (
	"fmt"
	"strings"
	"time"
)

// titleHUD shows frame statistics in the window title. It refreshes at most
// once per interval.
type titleHUD struct {
	base     string
	interval time.Duration

	last   time.Time
	frames int
	parts  []string
}

func newTitleHUD(base string, interval time.Duration) *titleHUD {
	return &titleHUD{base: base, interval: interval}
}

func (h *titleHUD) Add(format string, args ...any) {
	h.parts = append(h.parts, fmt.Sprintf(format, args...))
}

// Frame counts a frame and returns the new title when it is due.
func (h *titleHUD) Frame(now time.Time) (string, bool) {
	h.frames++
	if h.last.IsZero() {
		h.last = now
	}
	elapsed := now.Sub(h.last)
	if elapsed < h.interval {
		h.parts = h.parts[:0]
		return "", false
	}

	var b strings.Builder
	b.WriteString(h.base)
	fmt.Fprintf(&b, " | %.0f fps", float64(h.frames)/elapsed.Seconds())
	for _, p := range h.parts {
		b.WriteString(" | ")
		b.WriteString(p)
	}

	h.last = now
	h.frames = 0
	h.parts = h.parts[:0]
	return b.String(), true
}
