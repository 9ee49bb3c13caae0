package populate

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Du4lity5151/DestinationSol/engine/errs"
	"github.com/Du4lity5151/DestinationSol/engine/geom"
	"github.com/Du4lity5151/DestinationSol/engine/hero"
	"github.com/Du4lity5151/DestinationSol/engine/pilot"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

// PlayerSpawnPos returns where the player enters the galaxy. Fill must have
// run first.
func (p *Planner) PlayerSpawnPos() (mgl32.Vec2, error) {
	pos := mgl32.Vec2{world.SunRadius * 2, 0}
	g := p.world.Galaxy

	switch p.cfg.SpawnPlace {
	case SpawnNearStation:
		if p.mainStation == nil {
			return pos, errs.InvalidStatef("populate: no main station to spawn near")
		}
		pos = p.mainStation.Pos.Add(geom.FromAngle(90, p.mainStation.Hull.Size/2))
	case SpawnPlanet:
		if len(g.Systems) == 0 || len(g.Systems[0].Planets) == 0 {
			return pos, errs.InvalidStatef("populate: no planet to spawn on")
		}
		planet := g.Systems[0].Planets[0]
		pos = world.PlanetPosition(planet).Add(mgl32.Vec2{planet.FullHeight, 0})
	case SpawnMaze:
		if len(g.Mazes) > 0 {
			m := g.Mazes[0]
			pos = m.Position.Add(mgl32.Vec2{m.Radius, 0})
		}
	case SpawnTrader:
		for _, s := range p.world.AllShips() {
			if s.Hull != nil && s.Hull.ID == types.BusHull {
				pos = s.Pos.Add(mgl32.Vec2{s.Radius() * 2, 0})
				break
			}
		}
	default:
		return pos, errs.ConfigErrorf("populate: unknown spawn place %q", p.cfg.SpawnPlace)
	}
	return pos, nil
}

// CreatePlayer spawns the player ship and wraps it in a hero. With
// mouseControl the ship follows beacon; otherwise controls drive it.
func (p *Planner) CreatePlayer(mouseControl bool, controls pilot.Controls, beacon pilot.Beacon) (*hero.Hero, error) {
	recipe := p.cfg.Player
	if recipe == nil || recipe.Hull == nil {
		return nil, errs.MissingAssetf("populate: player ship recipe not set")
	}

	// 1. Where.
	pos, err := p.PlayerSpawnPos()
	if err != nil {
		return nil, err
	}

	// 2. Who flies it.
	player := p.factions.Player()
	var pil world.Pilot
	if mouseControl {
		pil = pilot.NewAI(pilot.NewBeaconSeeker(beacon, recipe.Hull), true, player, false, "you", pilot.AIDetectionDistance)
	} else {
		pil = pilot.NewUIControlled(player, controls)
	}

	// 3. The ship.
	waypoints, err := ParseWaypoints(recipe.Waypoints)
	if err != nil {
		return nil, err
	}
	loadout, err := p.items.Fill(recipe.Items, p.gameplay)
	if err != nil {
		return nil, err
	}
	ship := p.world.AddShip(&world.Ship{
		Hull:        recipe.Hull,
		Pilot:       pil,
		Role:        world.RolePlayer,
		System:      p.systemAt(pos),
		Pos:         pos,
		Money:       recipe.Money,
		Items:       loadout,
		HasRepairer: true,
	})
	ship.EquipDefaults()
	p.world.SetHero(ship)
	p.world.UpdateFarFlags()
	if p.recorder != nil && len(p.world.Galaxy.Systems) > 0 {
		p.record(ship, p.world.Galaxy.Systems[ship.System])
	}

	h := hero.New(ship)
	for _, wp := range waypoints {
		h.AddWaypoint(wp)
	}
	p.logger.Info("player created",
		"ship", ship.ID,
		"hull", recipe.Hull.ID,
		"x", pos.X(),
		"y", pos.Y(),
		"waypoints", len(waypoints),
	)
	return h, nil
}

// systemAt returns the index of the system whose center is closest to pos.
func (p *Planner) systemAt(pos mgl32.Vec2) int {
	best := 0
	var bestDist float32
	for i, sys := range p.world.Galaxy.Systems {
		d := geom.Dist(pos, sys.Position)
		if i == 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ParseWaypoints reads a list of "x,y_r,g,b" entries separated by spaces.
// The colour part is optional and defaults to white.
func ParseWaypoints(s string) ([]types.Waypoint, error) {
	var out []types.Waypoint
	for _, field := range strings.Fields(s) {
		posPart, colourPart, hasColour := strings.Cut(field, "_")
		xy, err := parseFloats(posPart, 2)
		if err != nil {
			return nil, errs.ConfigErrorf("waypoint %q: %v", field, err)
		}
		wp := types.Waypoint{Position: mgl32.Vec2{xy[0], xy[1]}, Color: [3]float32{1, 1, 1}}
		if hasColour {
			rgb, err := parseFloats(colourPart, 3)
			if err != nil {
				return nil, errs.ConfigErrorf("waypoint %q: %v", field, err)
			}
			wp.Color = [3]float32{rgb[0], rgb[1], rgb[2]}
		}
		out = append(out, wp)
	}
	return out, nil
}

func parseFloats(s string, n int) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errs.ConfigErrorf("want %d numbers, got %d", n, len(parts))
	}
	out := make([]float32, n)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}
