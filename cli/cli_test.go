package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Du4lity5151/DestinationSol/engine"
	"github.com/Du4lity5151/DestinationSol/engine/ledger"
	"github.com/Du4lity5151/DestinationSol/loader"
	"github.com/Du4lity5151/DestinationSol/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// newTestEngine boots the shipped assets, optionally with a ledger.
func newTestEngine(t *testing.T, withLedger bool) *engine.Engine {
	t.Helper()
	defs, err := loader.Load(os.DirFS("../assets"), "core", quietLogger())
	if err != nil {
		t.Fatalf("loader.Load: %v", err)
	}
	opts := engine.Options{Seed: 3, GameplaySeed: 4}
	if withLedger {
		l, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"), quietLogger())
		if err != nil {
			t.Fatalf("ledger.Open: %v", err)
		}
		t.Cleanup(func() { l.Close() })
		opts.Ledger = l
	}
	eng, err := engine.New(defs, opts, quietLogger())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return eng
}

func newTestCLI(t *testing.T, input string, withLedger bool) (*CLI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := &CLI{
		Engine: newTestEngine(t, withLedger),
		In:     strings.NewReader(input),
		Out:    &out,
	}
	return c, &out
}

func TestCLI_ShowsHeroOnStart(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n", false)
	c.Run()

	output := out.String()
	if !strings.Contains(output, "State: embodied") {
		t.Errorf("expected hero state in output, got:\n%s", output)
	}
	if !strings.Contains(output, "[Goodbye.]") {
		t.Error("expected goodbye on /quit")
	}
}

func TestCLI_GameCommands(t *testing.T) {
	c, out := newTestCLI(t, "factions\ntick 3\n/quit\n", false)
	c.Run()

	output := out.String()
	if !strings.Contains(output, "engine:laani") {
		t.Errorf("expected faction listing, got:\n%s", output)
	}
	if !strings.Contains(output, "Tick 3.") {
		t.Errorf("expected tick summary, got:\n%s", output)
	}
	if c.Engine.Run.Tick != 3 {
		t.Errorf("Tick = %d, want 3", c.Engine.Run.Tick)
	}
}

func TestCLI_Again(t *testing.T) {
	c, out := newTestCLI(t, "g\ntick 2\ng\n/quit\n", false)
	c.Run()

	if !strings.Contains(out.String(), "Nothing to repeat.") {
		t.Error("expected 'Nothing to repeat.' before any command")
	}
	if c.Engine.Run.Tick != 4 {
		t.Errorf("Tick = %d, want 4 after repeat", c.Engine.Run.Tick)
	}
}

func TestCLI_SkipsCommentsAndEchoes(t *testing.T) {
	c, out := newTestCLI(t, "# a comment\nsystems\n/quit\n", false)
	c.EchoInput = true
	c.Run()

	output := out.String()
	if strings.Contains(output, "a comment") {
		t.Error("comment lines should not be echoed")
	}
	if !strings.Contains(output, "> systems\n") {
		t.Errorf("expected echoed input, got:\n%s", output)
	}
}

func TestCLI_EOFExits(t *testing.T) {
	c, _ := newTestCLI(t, "hero\n", false)
	c.Run()
}

func TestHandleMeta(t *testing.T) {
	tests := []struct {
		input string
		quit  bool
		want  string
	}{
		{"/quit", true, "Goodbye."},
		{"/exit", true, "Goodbye."},
		{"/help", false, "relation <a> <b>"},
		{"/state", false, "Tick: 0"},
		{"/history", false, "No ledger attached."},
		{"/spawns", false, "No ledger attached."},
		{"/bogus", false, "Unknown command: /bogus"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, out := newTestCLI(t, "", false)
			if got := c.handleMeta(tt.input); got != tt.quit {
				t.Errorf("handleMeta(%q) quit = %v, want %v", tt.input, got, tt.quit)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("handleMeta(%q) output = %q, want it to contain %q", tt.input, out.String(), tt.want)
			}
		})
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	c, out := newTestCLI(t, "", false)
	c.handleMeta("/trace")
	if !c.Trace || !strings.Contains(out.String(), "enabled") {
		t.Errorf("trace = %v, output %q", c.Trace, out.String())
	}
	c.handleMeta("/trace")
	if c.Trace || !strings.Contains(out.String(), "disabled") {
		t.Errorf("trace = %v, output %q", c.Trace, out.String())
	}
}

func TestHistoryLines_WithLedger(t *testing.T) {
	eng := newTestEngine(t, true)
	eng.Command("report player laani DestroyedShip")
	eng.Command("report player ehar DamagedShip")

	lines := HistoryLines(eng, "")
	if len(lines) != 2 {
		t.Fatalf("HistoryLines = %v, want 2 rows", lines)
	}
	if !strings.Contains(lines[0], "DamagedShip") || !strings.Contains(lines[1], "DestroyedShip") {
		t.Errorf("HistoryLines should be newest first, got %v", lines)
	}

	if got := HistoryLines(eng, "1"); len(got) != 1 {
		t.Errorf("HistoryLines(1) = %v", got)
	}
	if got := HistoryLines(eng, "zero"); !strings.Contains(got[0], "Bad count") {
		t.Errorf("HistoryLines(zero) = %v", got)
	}
}

func TestSpawnLines_WithLedger(t *testing.T) {
	eng := newTestEngine(t, true)
	joined := strings.Join(SpawnLines(eng), "\n")
	if !strings.Contains(joined, "station") {
		t.Errorf("SpawnLines = %q, want a station row", joined)
	}
}

func TestTraceLines(t *testing.T) {
	if got := TraceLines(types.Result{}); got != nil {
		t.Errorf("TraceLines(empty) = %v, want nil", got)
	}
	got := TraceLines(types.Result{Events: []types.Event{{Type: "ship_damaged", Data: map[string]any{"ship": 4}}}})
	if len(got) != 2 || !strings.Contains(got[1], "ship_damaged") {
		t.Errorf("TraceLines = %v", got)
	}
}
