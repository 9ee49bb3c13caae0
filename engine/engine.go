// Package engine wires the simulation together: New boots a game from
// asset definitions, Tick advances it on a fixed timestep, and Command runs
// one console command.
package engine

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/Du4lity5151/DestinationSol/engine/events"
	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/galaxy"
	"github.com/Du4lity5151/DestinationSol/engine/geom"
	"github.com/Du4lity5151/DestinationSol/engine/hero"
	"github.com/Du4lity5151/DestinationSol/engine/items"
	"github.com/Du4lity5151/DestinationSol/engine/ledger"
	"github.com/Du4lity5151/DestinationSol/engine/parser"
	"github.com/Du4lity5151/DestinationSol/engine/pilot"
	"github.com/Du4lity5151/DestinationSol/engine/populate"
	"github.com/Du4lity5151/DestinationSol/engine/reputation"
	"github.com/Du4lity5151/DestinationSol/engine/resolve"
	"github.com/Du4lity5151/DestinationSol/engine/rng"
	"github.com/Du4lity5151/DestinationSol/engine/search"
	"github.com/Du4lity5151/DestinationSol/engine/state"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

// Defaults for zero Options fields.
const (
	DefaultViewDistance = 15
	DefaultTimeStep     = 1.0 / 60

	// DefaultMazes is the configured maze count. Zero Options.Mazes means
	// no mazes.
	DefaultMazes = 2

	// TradeDistance is the hull-edge gap within which a station trades.
	TradeDistance = 10

	maxTicksPerCommand = 100000
)

// Options tune a new game.
type Options struct {
	Seed              int64
	GameplaySeed      int64 // zero seeds the gameplay stream from the clock
	SpawnPlace        string
	EnemyPolicy       populate.EnemyFactionPolicy
	ViewDistance      float32
	TimeStep          float32
	DetectionDistance float32
	MouseControl      bool
	Mazes             int
	Ledger            *ledger.Ledger // optional
}

func (o Options) withDefaults() Options {
	if o.ViewDistance <= 0 {
		o.ViewDistance = DefaultViewDistance
	}
	if o.TimeStep <= 0 {
		o.TimeStep = DefaultTimeStep
	}
	if o.DetectionDistance <= 0 {
		o.DetectionDistance = pilot.AIDetectionDistance
	}
	if o.Mazes < 0 {
		o.Mazes = 0
	}
	if o.GameplaySeed == 0 {
		o.GameplaySeed = time.Now().UnixNano()
	}
	return o
}

// Beacon is the settable UI marker a mouse-controlled player follows.
type Beacon struct {
	pos mgl32.Vec2
	set bool
}

// Set places the marker.
func (b *Beacon) Set(pos mgl32.Vec2) { b.pos, b.set = pos, true }

// Clear removes the marker.
func (b *Beacon) Clear() { b.set = false }

// BeaconPosition implements pilot.Beacon.
func (b *Beacon) BeaconPosition() (mgl32.Vec2, bool) { return b.pos, b.set }

// Engine holds one running game.
type Engine struct {
	Defs       *state.Defs
	Run        *state.Run
	World      *world.World
	Factions   *faction.Registry
	Reputation *reputation.Service
	Population *populate.Population
	Hero       *hero.Hero
	Controls   *pilot.ManualControls
	Beacon     *Beacon
	Seeded     *rng.RNG
	Gameplay   *rng.RNG
	Ledger     *ledger.Run // nil without a ledger

	reload  map[types.ShipID]float32
	transit *transit
	logger  *slog.Logger
}

// New boots a game: factions, galaxy, population and the player.
func New(defs *state.Defs, opts Options, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()
	runID := uuid.NewString()
	e := &Engine{
		Defs:     defs,
		Run:      state.NewRun(runID, opts.Seed),
		Controls: &pilot.ManualControls{},
		Beacon:   &Beacon{},
		Seeded:   rng.New(opts.Seed),
		Gameplay: rng.New(opts.GameplaySeed),
		reload:   map[types.ShipID]float32{},
		logger:   logger.With("component", "engine", "run", runID),
	}

	// 1. Per-run factions.
	reg, err := faction.NewRegistry(defs.Factions, defs.Relations, defs.Events, logger)
	if err != nil {
		return nil, fmt.Errorf("loading factions: %w", err)
	}
	e.Factions = reg

	// 2. Optional ledger.
	var repRec reputation.Recorder
	var spawnRec populate.Recorder
	if opts.Ledger != nil {
		run, err := opts.Ledger.StartRun(runID, opts.Seed, defs.Module)
		if err != nil {
			return nil, err
		}
		e.Ledger = run
		repRec, spawnRec = run, run
	}
	e.Reputation = reputation.NewService(logger, repRec)

	// 3. Galaxy.
	g, err := galaxy.Build(defs.Systems, galaxy.Options{Seed: opts.Seed, Mazes: opts.Mazes}, e.Seeded)
	if err != nil {
		return nil, fmt.Errorf("building galaxy: %w", err)
	}
	e.World = world.New(g, opts.ViewDistance)
	e.World.TimeStep = opts.TimeStep

	// 4. Population.
	planner := populate.New(e.World, reg, defs.Items, e.Seeded, e.Gameplay, populate.Config{
		MainStation:       defs.MainStation,
		Player:            defs.Player,
		SpawnPlace:        opts.SpawnPlace,
		EnemyPolicy:       opts.EnemyPolicy,
		DetectionDistance: opts.DetectionDistance,
		MazeGuard:         mazeGuard(defs.Systems),
	}, logger, spawnRec)
	pop, err := planner.Fill()
	if err != nil {
		return nil, fmt.Errorf("populating galaxy: %w", err)
	}
	e.Population = pop

	// 5. Player.
	h, err := planner.CreatePlayer(opts.MouseControl, e.Controls, e.Beacon)
	if err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	e.Hero = h

	e.logger.Info("game started",
		"seed", opts.Seed,
		"systems", len(g.Systems),
		"ships", len(e.World.AllShips()),
		"star_ports", len(e.World.StarPorts()),
		"layout_draws", e.Seeded.Position(),
	)
	return e, nil
}

// mazeGuard picks the first enemy recipe of the first hard system.
func mazeGuard(systems []*types.SystemConfig) *types.ShipRecipe {
	for _, sys := range systems {
		if sys.Hard && len(sys.ConstEnemies) > 0 {
			return &sys.ConstEnemies[0]
		}
	}
	return nil
}

// Tick advances the simulation n fixed steps.
func (e *Engine) Tick(n int) types.Result {
	var result types.Result
	for i := 0; i < n; i++ {
		r := e.step()
		result.Events = append(result.Events, r.Events...)
		result.Output = append(result.Output, r.Output...)
	}
	return result
}

func (e *Engine) step() types.Result {
	var result types.Result
	w := e.World
	dt := w.TimeStep

	// 1. Advance the clock.
	e.Run.Tick++
	e.Reputation.SetTick(e.Run.Tick)

	// 2. Split live and far ships around the hero.
	w.UpdateFarFlags()

	// 3. Pilots decide against start-of-tick relations.
	for _, s := range w.AllShips() {
		if s.Dead || s.Pilot == nil {
			continue
		}
		if s.Far {
			s.Pilot.UpdateFar(w, s)
			continue
		}
		s.Pilot.Update(w, s, search.ForShip(w, s))
	}

	// 4. Weapons, then motion.
	e.fire(dt)
	w.Integrate(dt)

	// 5. A capsule in transit crosses toward its exit port.
	result.Output = append(result.Output, e.stepTransit(dt)...)

	// 6. Projectiles.
	evts := e.stepProjectiles(dt)
	result.Events = append(result.Events, evts...)

	// 7. Queue reputation events.
	events.Dispatch(evts, w, e.Reputation)

	// 8. Remove the dead.
	for _, s := range w.SweepDead() {
		delete(e.reload, s.ID)
		if s == w.Hero() {
			e.Hero.Die()
			result.Output = append(result.Output, "Your ship was destroyed.")
		}
	}

	// 9. Tick boundary: apply queued reputation.
	for _, rep := range e.Reputation.Flush() {
		result.Output = append(result.Output, formatReport(rep))
	}
	return result
}

// Command runs one console command.
func (e *Engine) Command(input string) types.Result {
	var result types.Result

	// 1. Parse input.
	intent := parser.Parse(input)

	// 2. Log the command.
	e.Run.CommandLog = append(e.Run.CommandLog, input)

	// 3. Empty input.
	if intent.Verb == "" {
		result.Output = append(result.Output, "Type a command, or /help.")
		return result
	}

	// 4. Dispatch on verb.
	switch intent.Verb {
	case "tick":
		return e.cmdTick(intent.Args)
	case "factions":
		result.Output = e.cmdFactions()
	case "relation":
		result.Output = e.cmdRelation(intent.Args)
	case "report":
		result.Output = e.cmdReport(intent.Args)
	case "ships":
		result.Output = e.cmdShips(intent.Args)
	case "nearest":
		result.Output = e.cmdNearest(intent.Args)
	case "hero":
		result.Output = e.cmdHero()
	case "systems":
		result.Output = e.cmdSystems()
	case "buy":
		return e.cmdBuy(intent.Args)
	case "travel":
		return e.cmdTravel(intent.Args)
	default:
		result.Output = append(result.Output, fmt.Sprintf("Unknown command %q. Type /help for the list.", intent.Verb))
	}
	return result
}

func (e *Engine) cmdTick(args []string) types.Result {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 || v > maxTicksPerCommand {
			return types.Result{Output: []string{fmt.Sprintf("tick count must be 1..%d", maxTicksPerCommand)}}
		}
		n = v
	}
	result := e.Tick(n)
	result.Output = append(result.Output, fmt.Sprintf("Tick %d. %d combat events.", e.Run.Tick, len(result.Events)))
	return result
}

func (e *Engine) cmdFactions() []string {
	player := e.Factions.Player()
	var out []string
	for _, f := range e.Factions.Factions() {
		out = append(out, fmt.Sprintf("%-16s %-14s disposition %4d  toward you %4d  %s",
			f.ID(), f.Name(), f.DefaultDisposition(), f.GetRelation(player), f.Colour().Hex()))
	}
	return out
}

func (e *Engine) cmdRelation(args []string) []string {
	if len(args) != 2 {
		return []string{"usage: relation <faction> <faction>"}
	}
	a, err := resolve.Faction(e.Factions, args[0])
	if err != nil {
		return []string{err.Error()}
	}
	b, err := resolve.Faction(e.Factions, args[1])
	if err != nil {
		return []string{err.Error()}
	}
	verdict := "friendly"
	if faction.AreEnemies(b, a) {
		verdict = "hostile"
	}
	return []string{fmt.Sprintf("%s views %s at %d (%s).", a.ID(), b.ID(), a.GetRelation(b), verdict)}
}

func (e *Engine) cmdReport(args []string) []string {
	if len(args) != 3 {
		return []string{"usage: report <instigator> <target> <event>"}
	}
	instigator, err := resolve.Faction(e.Factions, args[0])
	if err != nil {
		return []string{err.Error()}
	}
	target, err := resolve.Faction(e.Factions, args[1])
	if err != nil {
		return []string{err.Error()}
	}
	kind, ok := e.eventKind(args[2])
	if !ok {
		return []string{fmt.Sprintf("no reputation event named %q", args[2])}
	}
	return []string{formatReport(e.Reputation.Report(instigator, target, kind))}
}

func (e *Engine) eventKind(name string) (faction.EventKind, bool) {
	if k, ok := e.Factions.Events().Lookup(name); ok {
		return k, true
	}
	for _, k := range e.Factions.Events().Kinds() {
		if strings.EqualFold(k.Name, name) {
			return k, true
		}
	}
	return faction.EventKind{}, false
}

func (e *Engine) cmdShips(args []string) []string {
	system := -1
	if len(args) > 0 {
		idx, err := resolve.System(e.World.Galaxy, args[0])
		if err != nil {
			return []string{err.Error()}
		}
		system = idx
	}
	var out []string
	for _, s := range e.World.AllShips() {
		if system >= 0 && s.System != system {
			continue
		}
		out = append(out, e.shipLine(s))
	}
	if len(out) == 0 {
		return []string{"No ships."}
	}
	return out
}

func (e *Engine) shipLine(s *world.Ship) string {
	fid := types.FactionID("-")
	if f := s.Faction(); f != nil {
		fid = f.ID()
	}
	var hull types.HullDesignID
	if s.Hull != nil {
		hull = s.Hull.ID
	}
	line := fmt.Sprintf("#%-4d %-20s %-13s %-16s (%.1f, %.1f) life %.0f",
		s.ID, hull, s.Role, fid, s.Pos.X(), s.Pos.Y(), s.Life)
	if s.Far {
		line += " far"
	}
	return line
}

func (e *Engine) cmdNearest(args []string) []string {
	if len(args) != 1 {
		return []string{"usage: nearest <ship>"}
	}
	s, err := resolve.Ship(e.World, args[0])
	if err != nil {
		return []string{err.Error()}
	}
	enemy := search.ForShip(e.World, s)
	if enemy == nil {
		return []string{fmt.Sprintf("Ship #%d sees no enemy.", s.ID)}
	}
	d := geom.Dist(s.Pos, enemy.Pos) - enemy.Radius()
	return []string{fmt.Sprintf("Nearest enemy of #%d: %s at %.1f.", s.ID, e.shipLine(enemy), d)}
}

func (e *Engine) cmdHero() []string {
	h := e.Hero
	pos := h.Position()
	out := []string{
		fmt.Sprintf("State: %s", h.State()),
		fmt.Sprintf("Position: (%.1f, %.1f)  Angle: %.0f", pos.X(), pos.Y(), h.Angle()),
		fmt.Sprintf("Life: %.0f  Money: %s", h.Life(), humanize.Comma(int64(h.Money()))),
	}
	var codes []string
	for _, it := range h.Items() {
		codes = append(codes, it.Code)
	}
	if ship, err := h.Ship(); err == nil {
		for _, g := range ship.Guns {
			codes = append(codes, g.Code+" (equipped)")
		}
	}
	if len(codes) > 0 {
		out = append(out, "Items: "+strings.Join(codes, ", "))
	}
	if wps := h.Waypoints(); len(wps) > 0 {
		out = append(out, fmt.Sprintf("Waypoints: %d", len(wps)))
	}
	if h.IsDead() {
		out = append(out, "You are dead.")
	}
	return out
}

func (e *Engine) cmdSystems() []string {
	var out []string
	for i, sys := range e.World.Galaxy.Systems {
		line := fmt.Sprintf("%d. %-12s planets %d  radius %.0f", i+1, sys.Name, len(sys.Planets), sys.Radius)
		if i < len(e.Population.Systems) {
			c := e.Population.Systems[i]
			line += fmt.Sprintf("  stations %d  allies %d  enemies %d  guards %d", c.Stations, c.Allies, c.Enemies, c.Guards)
		}
		out = append(out, line)
	}
	return out
}

// cmdBuy buys one item from a station's trade table: the named code, or
// the first the hero can afford. The purchase counts as a tick boundary,
// so its reputation change applies at once.
func (e *Engine) cmdBuy(args []string) types.Result {
	var result types.Result
	say := func(s string) types.Result {
		result.Output = append(result.Output, s)
		return result
	}
	if len(args) < 1 || len(args) > 2 {
		return say("usage: buy <station> [item]")
	}

	// 1. Buyer and seller.
	ship, err := e.Hero.Ship()
	if err != nil {
		return say("You are in transit.")
	}
	if e.Hero.IsDead() {
		return say("You are dead.")
	}
	station, err := resolve.Ship(e.World, args[0])
	if err != nil {
		return say(err.Error())
	}
	if station.Trade == nil {
		return say(fmt.Sprintf("Ship #%d does not trade.", station.ID))
	}
	if faction.AreEnemies(e.Factions.Player(), station.Faction()) {
		return say(fmt.Sprintf("Ship #%d refuses to trade with you.", station.ID))
	}
	if geom.Dist(ship.Pos, station.Pos)-ship.Radius()-station.Radius() > TradeDistance {
		return say(fmt.Sprintf("Ship #%d is too far away.", station.ID))
	}

	// 2. Pick the item.
	item, ok, err := e.pickItem(station.Trade.Items, args[1:], ship.Money)
	if err != nil {
		return say(err.Error())
	}
	if !ok {
		return say("You cannot afford anything here.")
	}

	// 3. Pay.
	if err := e.Hero.SetMoney(ship.Money - item.Price); err != nil {
		return say(err.Error())
	}
	station.Money += item.Price
	ship.Items = append(ship.Items, item)
	result.Output = append(result.Output, fmt.Sprintf("Bought %s for %s. Money left: %s.",
		item.Code, humanize.Comma(int64(item.Price)), humanize.Comma(int64(ship.Money))))

	// 4. Reputation.
	evt := types.Event{Type: events.ItemBought, Data: map[string]any{
		events.KeyInstigator: ship.ID,
		events.KeyTarget:     station.ID,
		events.KeyItem:       item.Code,
	}}
	result.Events = append(result.Events, evt)
	events.Dispatch([]types.Event{evt}, e.World, e.Reputation)
	for _, rep := range e.Reputation.Flush() {
		result.Output = append(result.Output, formatReport(rep))
	}
	return result
}

func (e *Engine) pickItem(script string, want []string, money int) (types.ItemConfig, bool, error) {
	groups, err := items.Parse(script)
	if err != nil {
		return types.ItemConfig{}, false, err
	}
	for _, g := range groups {
		for _, code := range g.Codes {
			it, ok := e.Defs.Items.Get(code)
			if !ok {
				continue
			}
			if len(want) > 0 && !strings.EqualFold(code, want[0]) {
				continue
			}
			if it.Price <= money {
				return it, true, nil
			}
		}
	}
	if len(want) > 0 {
		return types.ItemConfig{}, false, fmt.Errorf("%q is not for sale here or costs too much", want[0])
	}
	return types.ItemConfig{}, false, nil
}

func formatReport(r reputation.Report) string {
	return fmt.Sprintf("%s now views %s at %d (%s %+d).", r.Target, r.Instigator, r.Relation, r.Event, r.Delta)
}
