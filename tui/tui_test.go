package tui

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Du4lity5151/DestinationSol/engine"
	"github.com/Du4lity5151/DestinationSol/loader"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	defs, err := loader.Load(os.DirFS("../assets"), "core", logger)
	if err != nil {
		t.Fatalf("loader.Load: %v", err)
	}
	eng, err := engine.New(defs, engine.Options{Seed: 5, GameplaySeed: 6}, logger)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return New(eng)
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"[trace] Events: 2", kindTrace},
		{"[Trace output enabled.]", kindSystem},
		{"Your ship was destroyed.", kindError},
		{`Unknown command "fly". Type /help for the list.`, kindError},
		{"usage: relation <faction> <faction>", kindError},
		{"Station #3 refuses to trade with you.", kindError},
		{"engine:ehar now views engine:player at -72 (DestroyedShip -22).", kindHostile},
		{"engine:laani now views engine:player at 51 (BoughtItem +1).", kindFriendly},
		{"engine:ehar views engine:player at -50 (hostile).", kindHostile},
		{"engine:laani views engine:player at 50 (friendly).", kindFriendly},
		{"Tick 10. 0 combat events.", kindNarrative},
		{"", kindNarrative},
	}
	for _, tt := range tests {
		if got := classifyLine(tt.line); got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"Bought core:fuel for 10. Money left: 790.", 20, "Bought core:fuel for\n10. Money left: 790."},
		{"", 80, ""},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		if got := wordWrap(tt.text, tt.width); got != tt.want {
			t.Errorf("wordWrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_Navigation(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("Prev on empty history should fail")
	}
	h.Push("tick")
	h.Push("hero")
	h.Push("hero")
	h.Push("systems")

	for _, want := range []string{"systems", "hero", "tick", "tick"} {
		if got, ok := h.Prev(); !ok || got != want {
			t.Errorf("Prev() = %q, %v, want %q", got, ok, want)
		}
	}
	if got, ok := h.Next(); !ok || got != "hero" {
		t.Errorf("Next() = %q, %v, want hero", got, ok)
	}
	h.Next()
	if _, ok := h.Next(); ok {
		t.Error("Next past newest should fail")
	}

	h.Prev()
	h.ResetCursor()
	if got, _ := h.Prev(); got != "systems" {
		t.Errorf("Prev after reset = %q, want systems", got)
	}
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c")
	if len(h.lines) != 2 || h.lines[0] != "b" {
		t.Errorf("lines = %v, want [b c]", h.lines)
	}
}

func TestHandleMeta(t *testing.T) {
	tests := []struct {
		input string
		quit  bool
		want  string
	}{
		{"/quit", true, "Goodbye."},
		{"/help", false, "PgUp/PgDn"},
		{"/state", false, "Tick: 0"},
		{"/history 5", false, "No ledger attached."},
		{"/bogus", false, "Unknown command"},
	}
	for _, tt := range tests {
		m := newTestModel(t)
		out, quit := m.handleMeta(tt.input)
		if quit != tt.quit {
			t.Errorf("handleMeta(%q) quit = %v, want %v", tt.input, quit, tt.quit)
		}
		if !strings.Contains(strings.Join(out, "\n"), tt.want) {
			t.Errorf("handleMeta(%q) = %v, want %q", tt.input, out, tt.want)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := newTestModel(t)
	m.handleMeta("/trace")
	if !m.trace {
		t.Error("expected trace enabled")
	}
	m.handleMeta("/trace")
	if m.trace {
		t.Error("expected trace disabled")
	}
}

func TestUpdate_EnterRunsCommand(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)

	m.input.SetValue("tick 2")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.engine.Run.Tick != 2 {
		t.Errorf("Tick = %d, want 2", m.engine.Run.Tick)
	}
	if m.lastCmd != "tick 2" {
		t.Errorf("lastCmd = %q", m.lastCmd)
	}
	if !strings.Contains(m.View(), "T:2") {
		t.Error("status bar should show the tick")
	}
}

func TestStatusBar_Location(t *testing.T) {
	m := newTestModel(t)
	m.width = 200
	bar := m.renderStatusBar()
	if !strings.Contains(bar, locationName(m.engine)) {
		t.Errorf("status bar %q should name the location", bar)
	}
	if !strings.Contains(bar, "embodied") {
		t.Errorf("status bar %q should show the hero state", bar)
	}
}
