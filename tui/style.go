package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Du4lity5151/DestinationSol/engine/faction"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleFriendly = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	styleHostile = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

type lineKind int

const (
	kindNarrative lineKind = iota
	kindFriendly
	kindHostile
	kindSystem
	kindError
	kindTrace
)

// classifyLine picks the style of one output line from its wording.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case line == "Your ship was destroyed.",
		strings.HasPrefix(line, "Unknown command"),
		strings.HasPrefix(line, "usage:"),
		strings.Contains(line, "refuses to trade"),
		strings.Contains(line, "is too far away"),
		strings.Contains(line, "cannot afford"):
		return kindError
	case strings.Contains(line, "(hostile"):
		return kindHostile
	case strings.Contains(line, "(friendly"):
		return kindFriendly
	case strings.Contains(line, " now views "):
		if v, ok := relationIn(line); ok && v < 0 {
			return kindHostile
		}
		return kindFriendly
	default:
		return kindNarrative
	}
}

// relationIn reads the value after " at " in a reputation report line.
func relationIn(line string) (int, bool) {
	_, rest, ok := strings.Cut(line, " at ")
	if !ok {
		return 0, false
	}
	field, _, _ := strings.Cut(rest, " ")
	v, err := strconv.Atoi(field)
	return v, err == nil
}

func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindFriendly:
		return styleFriendly.Render(line)
	case kindHostile:
		return styleHostile.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// factionStyle renders text in a faction's display colour. Translucent
// colours are blended toward the status bar background.
func factionStyle(c faction.Colour) lipgloss.Style {
	col := c.Color
	if c.Alpha < 1 {
		col = barBackground.BlendRgb(col, c.Alpha)
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color(col.Hex())).
		Bold(true)
}

func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
