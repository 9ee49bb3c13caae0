package tui

// History keeps recent command lines for Up/Down recall.
type History struct {
	lines []string
	limit int
	pos   int // len(lines) when not browsing
}

// NewHistory creates a history that keeps at most limit lines.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records a line and stops browsing. A repeat of the newest line is
// not stored twice.
func (h *History) Push(line string) {
	if n := len(h.lines); n == 0 || h.lines[n-1] != line {
		h.lines = append(h.lines, line)
		if len(h.lines) > h.limit {
			h.lines = h.lines[len(h.lines)-h.limit:]
		}
	}
	h.pos = len(h.lines)
}

// Prev steps toward older lines and stops at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.lines) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.lines[h.pos], true
}

// Next steps toward newer lines. Stepping past the newest returns false
// and ends browsing.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.lines)-1 {
		h.pos = len(h.lines)
		return "", false
	}
	h.pos++
	return h.lines[h.pos], true
}

// ResetCursor ends browsing.
func (h *History) ResetCursor() {
	h.pos = len(h.lines)
}
