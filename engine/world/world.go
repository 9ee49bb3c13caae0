// Package world is the object manager the simulation runs against: live and
// far ships, star ports, projectiles, the placement test and ray casts.
package world

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/geom"
	"github.com/Du4lity5151/DestinationSol/types"
)

// World-scale constants.
const (
	MaxGroundHeight  = 25
	AtmosphereHeight = 14
	SunRadius        = 2 * (MaxGroundHeight + AtmosphereHeight)
)

// FarDistance is how far from the hero a ship stays live.
const FarDistance = 60

// Pilot is the contract every ship controller honors.
type Pilot interface {
	Up() bool
	Left() bool
	Right() bool
	Shoot() bool
	Shoot2() bool
	Ability() bool

	CollectsItems() bool
	ShootsAtObstacles() bool
	DetectionDistance() float32
	Faction() *faction.Faction
	MapHint() string
	IsPlayer() bool

	// Update runs for live ships with the nearest enemy, which may be nil.
	Update(w *World, ship *Ship, nearestEnemy *Ship)
	// UpdateFar runs for off-screen ships.
	UpdateFar(w *World, ship *Ship)
}

// Role records why the planner spawned a ship.
type Role string

const (
	RoleMainStation Role = "main_station"
	RoleStation     Role = "station"
	RoleAlly        Role = "ally"
	RoleEnemy       Role = "enemy"
	RoleGuard       Role = "guard"
	RolePlayer      Role = "player"
)

// Ship is a spawned ship.
type Ship struct {
	ID          types.ShipID
	Hull        *types.HullConfig
	Pilot       Pilot
	Role        Role
	System      int
	Pos         mgl32.Vec2
	Vel         mgl32.Vec2
	Angle       float32
	Life        float32
	Money       int
	Items       []types.ItemConfig
	Guns        []types.ItemConfig // equipped, at most MaxGuns
	Trade       *types.TradeConfig
	HasRepairer bool
	Far         bool
	Dead        bool
}

// Faction returns the pilot's faction, or nil for an unpiloted hulk.
func (s *Ship) Faction() *faction.Faction {
	if s == nil || s.Pilot == nil {
		return nil
	}
	return s.Pilot.Faction()
}

// Radius returns the hull's approximate radius.
func (s *Ship) Radius() float32 {
	if s.Hull == nil {
		return 0
	}
	return s.Hull.ApproxRadius
}

// MaxGuns is the number of gun slots on a hull.
const MaxGuns = 2

// CanShoot reports whether a gun is equipped.
func (s *Ship) CanShoot() bool {
	return len(s.Guns) > 0
}

// Equip moves the first cargo item with code into a free gun slot.
func (s *Ship) Equip(code string) error {
	for i, it := range s.Items {
		if it.Code != code {
			continue
		}
		if it.Kind != "gun" {
			return fmt.Errorf("item %q is not a gun", code)
		}
		if len(s.Guns) >= MaxGuns {
			return fmt.Errorf("no free gun slot for %q", code)
		}
		s.Guns = append(s.Guns, it)
		s.Items = append(s.Items[:i], s.Items[i+1:]...)
		return nil
	}
	return fmt.Errorf("item %q not in cargo", code)
}

// Unequip moves an equipped gun back to cargo.
func (s *Ship) Unequip(code string) error {
	for i, g := range s.Guns {
		if g.Code == code {
			s.Guns = append(s.Guns[:i], s.Guns[i+1:]...)
			s.Items = append(s.Items, g)
			return nil
		}
	}
	return fmt.Errorf("gun %q not equipped", code)
}

// EquipDefaults fills free gun slots from cargo in order.
func (s *Ship) EquipDefaults() {
	for i := 0; i < len(s.Items) && len(s.Guns) < MaxGuns; {
		if s.Items[i].Kind == "gun" {
			_ = s.Equip(s.Items[i].Code)
			continue
		}
		i++
	}
}

// StarPort is one endpoint of a transit link between two planets.
type StarPort struct {
	From  *types.Planet
	To    *types.Planet
	Pos   mgl32.Vec2
	Angle float32
}

// StarPort geometry.
const (
	StarPortSize     = 0.75
	StarPortDistance = 2.5 // from the top of the atmosphere
)

// StarPortPosition returns where the endpoint on from, facing to, sits:
// just above from's atmosphere on the line toward to. Without precise the
// angle is snapped to whole degrees.
func StarPortPosition(from, to *types.Planet, precise bool) (mgl32.Vec2, float32) {
	fromPos := PlanetPosition(from)
	angle := geom.AngleTo(fromPos, PlanetPosition(to))
	if !precise {
		angle = float32(math.Round(float64(angle)))
	}
	pos := fromPos.Add(geom.FromAngle(angle, from.FullHeight+StarPortDistance))
	return pos, angle
}

// PlanetPosition returns the world position of a planet.
func PlanetPosition(p *types.Planet) mgl32.Vec2 {
	return geom.PlanetPos(p.SystemPos, p.Distance, p.Angle)
}

// Projectile is a fired round. Guided projectiles steer toward the
// nearest enemy.
type Projectile struct {
	Owner      *Ship
	Pos        mgl32.Vec2
	Angle      float32
	Speed      float32
	Damage     float32
	GuideSpeed float32 // degrees per second; zero for unguided
	TTL        float32
	Done       bool
}

// World holds every simulated object.
type World struct {
	Galaxy       *types.Galaxy
	ViewDistance float32
	TimeStep     float32

	ships       []*Ship
	starPorts   []*StarPort
	projectiles []*Projectile
	nextID      types.ShipID
	hero        *Ship
}

// New creates an empty world over a galaxy.
func New(g *types.Galaxy, viewDistance float32) *World {
	if g == nil {
		g = &types.Galaxy{}
	}
	return &World{Galaxy: g, ViewDistance: viewDistance, TimeStep: 1.0 / 60, nextID: 1}
}

// AddShip registers a ship and assigns its id.
func (w *World) AddShip(s *Ship) *Ship {
	s.ID = w.nextID
	w.nextID++
	if s.Life == 0 {
		s.Life = 100
	}
	w.ships = append(w.ships, s)
	return s
}

// RemoveShip drops a ship; its pilot stops being ticked at once.
func (w *World) RemoveShip(s *Ship) {
	s.Dead = true
	for i, o := range w.ships {
		if o == s {
			w.ships = append(w.ships[:i], w.ships[i+1:]...)
			return
		}
	}
}

// Ship returns the ship with the given id.
func (w *World) Ship(id types.ShipID) (*Ship, bool) {
	for _, s := range w.ships {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Ships returns the live (near) ships in spawn order.
func (w *World) Ships() []*Ship {
	out := make([]*Ship, 0, len(w.ships))
	for _, s := range w.ships {
		if !s.Far {
			out = append(out, s)
		}
	}
	return out
}

// FarShips returns the off-screen ships in spawn order.
func (w *World) FarShips() []*Ship {
	var out []*Ship
	for _, s := range w.ships {
		if s.Far {
			out = append(out, s)
		}
	}
	return out
}

// AllShips returns every ship in spawn order.
func (w *World) AllShips() []*Ship {
	return w.ships
}

// SetHero marks the ship the live/far split is measured from.
func (w *World) SetHero(s *Ship) {
	w.hero = s
}

// Hero returns the hero ship, if any.
func (w *World) Hero() *Ship {
	return w.hero
}

// UpdateFarFlags recomputes the live/far split around the hero. Without a
// hero every ship stays live.
func (w *World) UpdateFarFlags() {
	for _, s := range w.ships {
		s.Far = w.hero != nil && s != w.hero && geom.Dist(s.Pos, w.hero.Pos) > FarDistance
	}
}

// AddStarPort registers a transit endpoint.
func (w *World) AddStarPort(sp *StarPort) {
	w.starPorts = append(w.starPorts, sp)
}

// StarPorts returns every transit endpoint.
func (w *World) StarPorts() []*StarPort {
	return w.starPorts
}

// AddProjectile registers a fired projectile.
func (w *World) AddProjectile(p *Projectile) {
	w.projectiles = append(w.projectiles, p)
}

// Projectiles returns the in-flight projectiles.
func (w *World) Projectiles() []*Projectile {
	return w.projectiles
}

// SweepProjectiles drops finished projectiles.
func (w *World) SweepProjectiles() {
	live := w.projectiles[:0]
	for _, p := range w.projectiles {
		if !p.Done {
			live = append(live, p)
		}
	}
	w.projectiles = live
}

// SweepDead drops ships marked dead and returns them.
func (w *World) SweepDead() []*Ship {
	var dead []*Ship
	live := w.ships[:0]
	for _, s := range w.ships {
		if s.Dead {
			dead = append(dead, s)
			continue
		}
		live = append(live, s)
	}
	w.ships = live
	return dead
}

// NearGround reports whether pos is inside some planet's atmosphere.
func (w *World) NearGround(pos mgl32.Vec2) bool {
	for _, sys := range w.Galaxy.Systems {
		for _, p := range sys.Planets {
			if geom.Dist(pos, PlanetPosition(p)) < p.FullHeight {
				return true
			}
		}
	}
	return false
}

// IsPlaceEmpty reports whether pos is clear of suns, mazes, ships and star
// ports, and, when considerPlanets is set, of planets' atmospheres.
func (w *World) IsPlaceEmpty(pos mgl32.Vec2, considerPlanets bool) bool {
	for _, sys := range w.Galaxy.Systems {
		if geom.Dist(pos, sys.Position) < SunRadius {
			return false
		}
		if !considerPlanets {
			continue
		}
		for _, p := range sys.Planets {
			if geom.Dist(pos, PlanetPosition(p)) < p.FullHeight {
				return false
			}
		}
	}
	for _, m := range w.Galaxy.Mazes {
		if geom.Dist(pos, m.Position) < m.Radius {
			return false
		}
	}
	for _, s := range w.ships {
		if geom.Dist(pos, s.Pos) < s.Radius() {
			return false
		}
	}
	for _, sp := range w.starPorts {
		if geom.Dist(pos, sp.Pos) < StarPortSize {
			return false
		}
	}
	return true
}

// RayCastCallback is invoked for each ship fixture crossed by a ray, nearest
// first. It returns -1 to ignore the fixture and continue, 0 to stop, or a
// positive value to continue.
type RayCastCallback func(hit *Ship, fraction float32) float32

// RayCast walks the segment from-to and reports crossed ships to cb.
func (w *World) RayCast(from, to mgl32.Vec2, cb RayCastCallback) {
	type crossing struct {
		ship *Ship
		frac float32
	}
	var hits []crossing
	for _, s := range w.ships {
		if ok, frac := geom.SegmentHitsCircle(from, to, s.Pos, s.Radius()); ok {
			hits = append(hits, crossing{ship: s, frac: frac})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].frac < hits[j].frac })
	for _, h := range hits {
		if cb(h.ship, h.frac) == 0 {
			return
		}
	}
}

// Integrate advances every live ship by dt from its pilot's intents.
func (w *World) Integrate(dt float32) {
	for _, s := range w.ships {
		integrateShip(s, dt)
	}
}

// Ship handling.
const (
	DefaultSpeed  = 3.0
	Acceleration  = 2.0
	RotationSpeed = 120.0 // degrees per second
	SpaceFriction = 0.1
)

func integrateShip(s *Ship, dt float32) {
	if s.Pilot == nil || s.Dead || s.Far {
		return
	}
	if s.Hull != nil && s.Hull.Type == types.HullStation {
		return
	}
	if s.Pilot.Left() {
		s.Angle = geom.NormAngle(s.Angle - RotationSpeed*dt)
	}
	if s.Pilot.Right() {
		s.Angle = geom.NormAngle(s.Angle + RotationSpeed*dt)
	}
	maxSpeed := float32(DefaultSpeed)
	if s.Hull != nil && s.Hull.Speed > 0 {
		maxSpeed = s.Hull.Speed
	}
	if s.Pilot.Up() {
		s.Vel = s.Vel.Add(geom.FromAngle(s.Angle, Acceleration*dt))
	} else {
		s.Vel = s.Vel.Mul(1 - SpaceFriction*dt)
	}
	if l := s.Vel.Len(); l > maxSpeed {
		s.Vel = s.Vel.Mul(maxSpeed / l)
	}
	s.Pos = s.Pos.Add(s.Vel.Mul(dt))
}
