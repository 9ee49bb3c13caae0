package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Du4lity5151/DestinationSol/engine"
	"github.com/Du4lity5151/DestinationSol/engine/geom"
)

// barBackground matches the status bar's 256-colour background.
var barBackground, _ = colorful.Hex("#303030")

// locationName names the solar system the hero is in.
func locationName(e *engine.Engine) string {
	pos := e.Hero.Position()
	for _, sys := range e.World.Galaxy.Systems {
		if geom.Dist(pos, sys.Position) <= sys.Radius {
			return sys.Name
		}
	}
	return "Deep space"
}

// renderStatusBar produces a full-width line: location, hero state, and
// how the well-known factions view the player, each in its own colour.
func (m Model) renderStatusBar() string {
	e := m.engine
	h := e.Hero

	state := h.State()
	if h.IsDead() {
		state = "dead"
	}
	left := fmt.Sprintf(" %s | %s | Life %.0f | Money %s ",
		locationName(e), state, h.Life(), humanize.Comma(int64(h.Money())))

	player := e.Factions.Player()
	var standing []string
	var plain []string
	for _, f := range e.Factions.Factions() {
		if f == player {
			continue
		}
		text := fmt.Sprintf("%s %+d", f.DisplayName(), f.GetRelation(player))
		plain = append(plain, text)
		standing = append(standing, factionStyle(f.Colour()).Render(text))
	}
	right := fmt.Sprintf("T:%d ", e.Run.Tick)
	rel := strings.Join(plain, " ")
	if lipgloss.Width(left)+lipgloss.Width(rel)+lipgloss.Width(right)+2 >= m.width {
		standing = nil
	}

	var mid string
	if len(standing) > 0 {
		mid = strings.Join(standing, styleStatusBar.Render(" "))
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return styleStatusBar.Render(left) + mid + styleStatusBar.Render(strings.Repeat(" ", gap)+right)
}
