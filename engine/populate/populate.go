// Package populate seeds a freshly built galaxy with faction-owned ships:
// star-port links, the main station, each system's constant allies and
// enemies, and the guardians of flagship ships.
//
// Layout draws only from the seeded stream, so a seed reproduces station
// positions and per-system counts. Guardian spread and loadouts draw from
// the gameplay stream.
package populate

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Du4lity5151/DestinationSol/engine/angles"
	"github.com/Du4lity5151/DestinationSol/engine/errs"
	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/geom"
	"github.com/Du4lity5151/DestinationSol/engine/items"
	"github.com/Du4lity5151/DestinationSol/engine/pilot"
	"github.com/Du4lity5151/DestinationSol/engine/rng"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

// Placement constants. Angles are in degrees.
const (
	StationConsumeSector   = 45
	OrbitalFeatureBuffer   = 8
	MainStationAngleOffset = 20
	StationAngleAttempts   = 10
	EmptySpaceAttempts     = 100
	GuardAngleAttempts     = 5
	SmallShipDetectionGain = 1.5
)

// EnemyFactionPolicy selects the faction of constEnemies ships.
type EnemyFactionPolicy string

const (
	// EnemyFromRecipe uses the builder of the enemy recipe's hull,
	// falling back to the generic enemy.
	EnemyFromRecipe EnemyFactionPolicy = "recipe"
	// EnemyFromMainStation uses the builder of the main station's hull.
	EnemyFromMainStation EnemyFactionPolicy = "main_station"
)

// Spawn places of the player.
const (
	SpawnNearStation = ""
	SpawnPlanet      = "planet"
	SpawnMaze        = "maze"
	SpawnTrader      = "trader"
)

// Config is the planner's input beyond the galaxy itself.
type Config struct {
	MainStation       *types.ShipRecipe
	Player            *types.ShipRecipe
	SpawnPlace        string
	EnemyPolicy       EnemyFactionPolicy
	DetectionDistance float32
	MazeGuard         *types.ShipRecipe // nil leaves mazes unguarded
}

// SpawnRecord describes one spawned ship for the manifest.
type SpawnRecord struct {
	Ship    types.ShipID
	Role    world.Role
	Faction types.FactionID
	Hull    types.HullDesignID
	System  string
	Pos     mgl32.Vec2
}

// Recorder receives every spawned ship.
type Recorder interface {
	RecordSpawn(SpawnRecord) error
}

// SystemCount tallies what one system received.
type SystemCount struct {
	System   string
	Stations int
	Allies   int
	Enemies  int
	Guards   int
}

// Population summarizes a Fill.
type Population struct {
	MainStation *world.Ship
	Stations    []mgl32.Vec2 // station positions in spawn order
	StarPorts   int
	Systems     []SystemCount
}

// Planner populates one world.
type Planner struct {
	world    *world.World
	factions *faction.Registry
	items    *items.Catalog
	seeded   *rng.RNG
	gameplay *rng.RNG
	cfg      Config
	logger   *slog.Logger
	recorder Recorder

	stationAngles angles.Reservation
	mainStation   *world.Ship
	counts        []SystemCount
}

// New creates a planner. seeded drives layout; gameplay drives transient
// choices. recorder may be nil.
func New(w *world.World, factions *faction.Registry, catalog *items.Catalog, seeded, gameplay *rng.RNG, cfg Config, logger *slog.Logger, recorder Recorder) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DetectionDistance == 0 {
		cfg.DetectionDistance = pilot.AIDetectionDistance
	}
	if cfg.EnemyPolicy == "" {
		cfg.EnemyPolicy = EnemyFromRecipe
	}
	return &Planner{
		world:    w,
		factions: factions,
		items:    catalog,
		seeded:   seeded,
		gameplay: gameplay,
		cfg:      cfg,
		logger:   logger.With("component", "populate"),
		recorder: recorder,
	}
}

// MainStation returns the main station once Fill has run.
func (p *Planner) MainStation() *world.Ship {
	return p.mainStation
}

// Fill populates the galaxy. The order of the steps is observable through
// the seeded stream.
func (p *Planner) Fill() (*Population, error) {
	systems := p.world.Galaxy.Systems
	if len(systems) == 0 {
		return nil, errs.ConfigErrorf("populate: galaxy has no systems")
	}
	if p.cfg.MainStation == nil || p.cfg.MainStation.Hull == nil {
		return nil, errs.MissingAssetf("populate: main station recipe not set")
	}
	p.counts = make([]SystemCount, len(systems))
	for i, sys := range systems {
		p.counts[i].System = sys.Name
	}
	pop := &Population{}

	// 1. Star-port links.
	ports, err := p.createStarPorts(systems)
	if err != nil {
		return nil, err
	}
	pop.StarPorts = ports

	// 2. Main station in the first system.
	mainHull := p.cfg.MainStation.Hull
	stationFaction := p.builderOr(mainHull.ID, p.factions.GenericAlly())
	main, err := p.build(p.cfg.MainStation, 0, stationFaction, true)
	if err != nil {
		return nil, err
	}
	p.mainStation = main
	pop.MainStation = main

	// 3. Constant allies and enemies, system by system.
	for i, sys := range systems {
		if sys.Config != nil {
			for j := range sys.Config.ConstAllies {
				recipe := &sys.Config.ConstAllies[j]
				f := p.builderOr(recipe.Hull.ID, p.factions.GenericAlly())
				if err := p.spawnMany(recipe, i, f); err != nil {
					return nil, err
				}
			}
			for j := range sys.Config.ConstEnemies {
				recipe := &sys.Config.ConstEnemies[j]
				if err := p.spawnMany(recipe, i, p.enemyFaction(recipe)); err != nil {
					return nil, err
				}
			}
		}
		p.stationAngles.Reset()
	}

	// 4. A still guard at the centre of each maze.
	if p.cfg.MazeGuard != nil {
		for _, m := range p.world.Galaxy.Mazes {
			if err := p.mazeGuard(p.cfg.MazeGuard, m); err != nil {
				return nil, err
			}
		}
	}

	for _, s := range p.world.AllShips() {
		if s.Hull != nil && s.Hull.Type == types.HullStation {
			pop.Stations = append(pop.Stations, s.Pos)
		}
	}
	pop.Systems = p.counts
	for _, c := range p.counts {
		p.logger.Info("system populated",
			"system", c.System,
			"stations", c.Stations,
			"allies", c.Allies,
			"enemies", c.Enemies,
			"guards", c.Guards,
		)
	}
	return pop, nil
}

func (p *Planner) spawnMany(recipe *types.ShipRecipe, system int, f *faction.Faction) error {
	if recipe.Hull == nil {
		return errs.MissingAssetf("populate: recipe without hull in system %d", system)
	}
	count := int(math.Floor(float64(recipe.Density)))
	for k := 0; k < count; k++ {
		if _, err := p.build(recipe, system, f, false); err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) builderOr(hull types.HullDesignID, fallback *faction.Faction) *faction.Faction {
	if f := p.factions.BuilderFor(hull); f != nil {
		return f
	}
	p.logger.Warn("using fallback faction", "hull", hull, "faction", fallback.ID())
	return fallback
}

func (p *Planner) enemyFaction(recipe *types.ShipRecipe) *faction.Faction {
	if p.cfg.EnemyPolicy == EnemyFromMainStation {
		return p.builderOr(p.cfg.MainStation.Hull.ID, p.factions.GenericEnemy())
	}
	return p.builderOr(recipe.Hull.ID, p.factions.GenericEnemy())
}

// build spawns one ship of recipe in system for faction f.
func (p *Planner) build(recipe *types.ShipRecipe, system int, f *faction.Faction, isMain bool) (*world.Ship, error) {
	sys := p.world.Galaxy.Systems[system]
	hull := recipe.Hull
	isStation := hull.Type == types.HullStation
	isAlly := !faction.AreEnemies(p.factions.Player(), f)
	detection := p.cfg.DetectionDistance

	var (
		pos   mgl32.Vec2
		dest  pilot.DestProvider
		trade *types.TradeConfig
		err   error
	)
	if isStation {
		pos, err = p.stationPos(sys, isMain)
		if err != nil {
			return nil, err
		}
		dest = pilot.StationKeeper{}
		trade = systemTrade(sys)
	} else {
		pos, err = p.emptySpace(sys)
		if err != nil {
			return nil, err
		}
		isBig := hull.Type == types.HullBig
		dest = pilot.NewExplorer(pos, !isBig, hull, sys, p.gameplay)
		if isBig {
			if isAlly {
				trade = systemTrade(sys)
			}
		} else {
			detection *= SmallShipDetectionGain
		}
	}

	var angle float32
	if !isMain {
		angle = p.seeded.Float32(360)
	}
	loadout, err := p.items.Fill(recipe.Items, p.gameplay)
	if err != nil {
		return nil, err
	}

	ship := p.world.AddShip(&world.Ship{
		Hull:        hull,
		Pilot:       pilot.NewAI(dest, true, f, true, "something", detection),
		Role:        roleOf(isMain, isStation, isAlly),
		System:      system,
		Pos:         pos,
		Angle:       angle,
		Money:       recipe.Money,
		Items:       loadout,
		Trade:       trade,
		HasRepairer: isAlly,
	})
	ship.EquipDefaults()
	p.tally(ship)
	p.record(ship, sys)

	if recipe.Guard != nil {
		if err := p.guard(ship, recipe.Guard, f, isAlly); err != nil {
			return nil, err
		}
	}
	return ship, nil
}

// guard spreads recipe's guardians around target. The local reservation
// and the gameplay stream make the spread transient.
func (p *Planner) guard(target *world.Ship, recipe *types.ShipRecipe, f *faction.Faction, isAlly bool) error {
	if recipe.Hull == nil {
		return errs.MissingAssetf("populate: guard recipe without hull")
	}
	var taken angles.Reservation
	width := recipe.Hull.ApproxRadius
	for i := 0; float32(i) < recipe.Density; i++ {
		var relAngle float32
		for j := 0; j < GuardAngleAttempts; j++ {
			relAngle = p.gameplay.Range(-180, 180)
			if !taken.IsConsumed(relAngle, width) {
				taken.Add(relAngle, width)
				break
			}
		}
		if err := p.createGuard(target, recipe, f, relAngle, isAlly); err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) createGuard(target *world.Ship, recipe *types.ShipRecipe, f *faction.Faction, relAngle float32, isAlly bool) error {
	dest := pilot.NewGuardian(target, recipe.Hull, relAngle)
	pos, _ := dest.Destination()
	loadout, err := p.items.Fill(recipe.Items, p.gameplay)
	if err != nil {
		return err
	}
	ship := p.world.AddShip(&world.Ship{
		Hull:        recipe.Hull,
		Pilot:       pilot.NewAI(dest, true, f, false, "", pilot.AIDetectionDistance),
		Role:        world.RoleGuard,
		System:      target.System,
		Pos:         pos,
		Angle:       target.Angle + relAngle,
		Money:       recipe.Money,
		Items:       loadout,
		HasRepairer: isAlly,
	})
	ship.EquipDefaults()
	p.tally(ship)
	p.record(ship, p.world.Galaxy.Systems[target.System])
	return nil
}

// mazeGuard posts one enemy holding m's centre. It counts toward the
// nearest system.
func (p *Planner) mazeGuard(recipe *types.ShipRecipe, m *types.Maze) error {
	if recipe.Hull == nil {
		return errs.MissingAssetf("populate: maze guard recipe without hull")
	}
	systems := p.world.Galaxy.Systems
	system := 0
	for i, sys := range systems {
		if geom.Dist(m.Position, sys.Position) < geom.Dist(m.Position, systems[system].Position) {
			system = i
		}
	}
	loadout, err := p.items.Fill(recipe.Items, p.gameplay)
	if err != nil {
		return err
	}
	dest := pilot.NewStillGuard(m.Position, recipe.Hull)
	ship := p.world.AddShip(&world.Ship{
		Hull:   recipe.Hull,
		Pilot:  pilot.NewAI(dest, false, p.enemyFaction(recipe), true, "", p.cfg.DetectionDistance),
		Role:   world.RoleGuard,
		System: system,
		Pos:    m.Position,
		Money:  recipe.Money,
		Items:  loadout,
	})
	ship.EquipDefaults()
	p.tally(ship)
	p.record(ship, systems[system])
	return nil
}

// stationPos picks an orbital slot next to a planet. The main station sits
// just ahead of the second-to-last planet in its spin direction; others
// try random slots and take the last one tried if all are consumed.
func (p *Planner) stationPos(sys *types.SolarSystem, isMain bool) (mgl32.Vec2, error) {
	planets := sys.Planets
	if len(planets) < 2 {
		return mgl32.Vec2{}, errs.ConfigErrorf("populate: system %q needs at least 2 planets for a station", sys.Name)
	}
	var planet *types.Planet
	var angle float32
	if isMain {
		planet = planets[len(planets)-2]
		angle = planet.Angle + MainStationAngleOffset*geom.Sign(planet.RotationSpeed)
	} else {
		planet = planets[p.seeded.Intn(len(planets)-1)]
		for i := 0; i < StationAngleAttempts; i++ {
			angle = p.seeded.Range(-180, 180)
			if !p.stationAngles.IsConsumed(angle, StationConsumeSector) {
				break
			}
		}
	}
	p.stationAngles.Add(angle, StationConsumeSector)
	dist := planet.Distance + planet.FullHeight + OrbitalFeatureBuffer
	return sys.Position.Add(geom.FromAngle(angle, dist)), nil
}

// emptySpace samples the system until it finds a place clear of every
// object. Hard systems use their full radius, others the inner radius.
func (p *Planner) emptySpace(sys *types.SolarSystem) (mgl32.Vec2, error) {
	radius := sys.InnerRadius
	if sys.Config != nil && sys.Config.Hard {
		radius = sys.Radius
	}
	for i := 0; i < EmptySpaceAttempts; i++ {
		angle := p.seeded.Float32(360)
		dist := p.seeded.Float32(radius)
		pos := sys.Position.Add(geom.FromAngle(angle, dist))
		if p.world.IsPlaceEmpty(pos, true) {
			return pos, nil
		}
	}
	return mgl32.Vec2{}, errs.PlacementFailedf("populate: no empty space in %q after %d attempts", sys.Name, EmptySpaceAttempts)
}

// createStarPorts links the tallest planet of each system to every
// non-adjacent planet of its system and to the tallest planet of each
// earlier system.
func (p *Planner) createStarPorts(systems []*types.SolarSystem) (int, error) {
	var tallest []*types.Planet
	links := 0
	for _, sys := range systems {
		var best *types.Planet
		bestIdx := -1
		var maxHeight float32
		for i, pl := range sys.Planets {
			if maxHeight < pl.GroundHeight {
				maxHeight = pl.GroundHeight
				best = pl
				bestIdx = i
			}
		}
		if best == nil {
			continue
		}
		for i, pl := range sys.Planets {
			if i == bestIdx || i == bestIdx-1 || i == bestIdx+1 {
				continue
			}
			if err := p.link(best, pl); err != nil {
				return links, err
			}
			links++
		}
		for _, other := range tallest {
			if err := p.link(best, other); err != nil {
				return links, err
			}
			links++
		}
		tallest = append(tallest, best)
	}
	return links, nil
}

func (p *Planner) link(a, b *types.Planet) error {
	if a == b {
		return errs.ConfigErrorf("populate: cannot link planet %q to itself", a.Name)
	}
	posA, angleA := world.StarPortPosition(a, b, false)
	p.world.AddStarPort(&world.StarPort{From: a, To: b, Pos: posA, Angle: angleA})
	posB, angleB := world.StarPortPosition(b, a, false)
	p.world.AddStarPort(&world.StarPort{From: b, To: a, Pos: posB, Angle: angleB})
	return nil
}

func (p *Planner) tally(s *world.Ship) {
	c := &p.counts[s.System]
	switch s.Role {
	case world.RoleMainStation, world.RoleStation:
		c.Stations++
	case world.RoleAlly:
		c.Allies++
	case world.RoleEnemy:
		c.Enemies++
	case world.RoleGuard:
		c.Guards++
	}
}

func (p *Planner) record(s *world.Ship, sys *types.SolarSystem) {
	if p.recorder == nil {
		return
	}
	rec := SpawnRecord{
		Ship:   s.ID,
		Role:   s.Role,
		Hull:   s.Hull.ID,
		System: sys.Name,
		Pos:    s.Pos,
	}
	if f := s.Faction(); f != nil {
		rec.Faction = f.ID()
	}
	if err := p.recorder.RecordSpawn(rec); err != nil {
		p.logger.Warn("failed to record spawn", "ship", s.ID, "error", err)
	}
}

func roleOf(isMain, isStation, isAlly bool) world.Role {
	switch {
	case isMain:
		return world.RoleMainStation
	case isStation:
		return world.RoleStation
	case isAlly:
		return world.RoleAlly
	default:
		return world.RoleEnemy
	}
}

func systemTrade(sys *types.SolarSystem) *types.TradeConfig {
	if sys.Config == nil {
		return nil
	}
	return &sys.Config.Trade
}
