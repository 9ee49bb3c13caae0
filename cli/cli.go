// Package cli provides the plain terminal console: line input, output
// formatting and meta-command dispatch for a running game.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Du4lity5151/DestinationSol/engine"
	"github.com/Du4lity5151/DestinationSol/types"
)

// defaultHistory is how many reputation rows /history shows.
const defaultHistory = 10

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)
	lastCmd   string
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run shows the hero, then loops: prompt, input, dispatch, output.
func (c *CLI) Run() {
	c.printResult(c.Engine.Command("hero"))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Command(input)
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true
	case "/help":
		for _, line := range HelpLines() {
			c.printLine(line)
		}
	case "/state":
		for _, line := range StateLines(c.Engine) {
			c.printSystem(line)
		}
	case "/history":
		for _, line := range HistoryLines(c.Engine, arg) {
			c.printSystem(line)
		}
	case "/spawns":
		for _, line := range SpawnLines(c.Engine) {
			c.printSystem(line)
		}
	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false
}

// HelpLines lists meta and game commands.
func HelpLines() []string {
	return []string{
		"System:",
		"  /quit            Exit game",
		"  /help            Show this help",
		"  /state           Debug: run summary",
		"  /history [n]     Recent reputation changes (needs a ledger)",
		"  /spawns          Ships spawned per role (needs a ledger)",
		"  /trace           Toggle event trace output",
		"",
		"Game commands:",
		"  tick [n]                  Advance the simulation n steps",
		"  factions                  List factions",
		"  relation <a> <b>          How faction a views faction b",
		"  report <inst> <tgt> <ev>  Apply a reputation event now",
		"  ships [system]            List ships",
		"  nearest <ship>            Nearest enemy a ship can see",
		"  hero                      Your ship",
		"  systems                   Solar systems and their population",
		"  buy <station> [item]      Buy from a station",
		"  travel [port]             List star ports, or go through one",
		"  again (g)                 Repeat your last command",
	}
}

// StateLines summarizes the run for /state.
func StateLines(e *engine.Engine) []string {
	out := []string{
		fmt.Sprintf("Run: %s  Seed: %d", e.Run.ID, e.Run.Seed),
		fmt.Sprintf("Tick: %d  Commands: %d", e.Run.Tick, len(e.Run.CommandLog)),
		fmt.Sprintf("Ships: %d live, %d far", len(e.World.Ships()), len(e.World.FarShips())),
		fmt.Sprintf("Pending reputation events: %d", e.Reputation.Pending()),
	}
	if e.Hero.IsDead() {
		out = append(out, "Hero: dead")
	}
	return out
}

// HistoryLines reads the most recent reputation rows from the ledger.
func HistoryLines(e *engine.Engine, arg string) []string {
	if e.Ledger == nil {
		return []string{"No ledger attached."}
	}
	limit := defaultHistory
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return []string{fmt.Sprintf("Bad count %q.", arg)}
		}
		limit = n
	}
	entries, err := e.Ledger.History(limit)
	if err != nil {
		return []string{fmt.Sprintf("History failed: %v", err)}
	}
	if len(entries) == 0 {
		return []string{"No reputation changes yet."}
	}
	out := make([]string, 0, len(entries))
	for _, en := range entries {
		out = append(out, fmt.Sprintf("T%d %s: %s %+d toward %s (now %d)",
			en.Tick, en.Event, en.Target, en.Delta, en.Instigator, en.Relation))
	}
	return out
}

// SpawnLines tallies the ledger's spawn manifest by role.
func SpawnLines(e *engine.Engine) []string {
	if e.Ledger == nil {
		return []string{"No ledger attached."}
	}
	counts, err := e.Ledger.SpawnCounts()
	if err != nil {
		return []string{fmt.Sprintf("Spawns failed: %v", err)}
	}
	out := make([]string, 0, len(counts))
	for _, rc := range counts {
		out = append(out, fmt.Sprintf("%-10s %s", rc.Role, humanize.Comma(int64(rc.Count))))
	}
	return out
}

// TraceLines renders the events of a result.
func TraceLines(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
	return lines
}

func (c *CLI) printTrace(result types.Result) {
	for _, line := range TraceLines(result) {
		c.printLine(line)
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
