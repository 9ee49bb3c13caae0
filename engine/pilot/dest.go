package pilot

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Du4lity5151/DestinationSol/engine/geom"
	"github.com/Du4lity5151/DestinationSol/engine/rng"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

// Maneuver is a provider's answer to "should this ship fight?".
type Maneuver int

const (
	// ManeuverDefault fights when the ship can shoot.
	ManeuverDefault Maneuver = iota
	ManeuverEngage
	ManeuverIgnore
)

func (m Maneuver) String() string {
	switch m {
	case ManeuverEngage:
		return "engage"
	case ManeuverIgnore:
		return "ignore"
	default:
		return "default"
	}
}

// AI speeds.
const (
	DefaultAISpeed = 3
	BigAISpeed     = 2
	// GuardDistance is the gap between a guardian's hull and its target's.
	GuardDistance = 1.5
)

// DestProvider is the AI pilot's strategy.
type DestProvider interface {
	// Destination returns where to fly; false means stay put.
	Destination() (mgl32.Vec2, bool)
	DesiredSpeed() float32
	ShouldStopNearDestination() bool
	ShouldAvoidBigObstacles() bool
	ManeuverPolicy(canShoot bool, nearestEnemy *world.Ship, nearGround bool) Maneuver
	Tick(w *world.World, shipPos mgl32.Vec2, maxIdleDist float32, hull *types.HullConfig, nearestEnemy *world.Ship)
}

func speedFor(hull *types.HullConfig) float32 {
	if hull != nil && hull.Type == types.HullBig {
		return BigAISpeed
	}
	return DefaultAISpeed
}

// StationKeeper never moves. Stations use it.
type StationKeeper struct{}

func (StationKeeper) Destination() (mgl32.Vec2, bool) { return mgl32.Vec2{}, false }
func (StationKeeper) DesiredSpeed() float32           { return 0 }
func (StationKeeper) ShouldStopNearDestination() bool { return true }
func (StationKeeper) ShouldAvoidBigObstacles() bool   { return true }

func (StationKeeper) ManeuverPolicy(bool, *world.Ship, bool) Maneuver {
	return ManeuverDefault
}

func (StationKeeper) Tick(*world.World, mgl32.Vec2, float32, *types.HullConfig, *world.Ship) {}

// Explorer wanders a system, favoring its inner planets. An aggressive
// explorer always engages enemies it meets; a peaceful one leaves them
// alone near planets.
type Explorer struct {
	system     *types.SolarSystem
	aggressive bool
	speed      float32
	rand       *rng.RNG
	dest       mgl32.Vec2
}

// NewExplorer creates an explorer starting at pos. r is the gameplay stream.
func NewExplorer(pos mgl32.Vec2, aggressive bool, hull *types.HullConfig, system *types.SolarSystem, r *rng.RNG) *Explorer {
	return &Explorer{
		system:     system,
		aggressive: aggressive,
		speed:      speedFor(hull),
		rand:       r,
		dest:       pos,
	}
}

func (e *Explorer) Destination() (mgl32.Vec2, bool) { return e.dest, true }
func (e *Explorer) DesiredSpeed() float32           { return e.speed }
func (e *Explorer) ShouldStopNearDestination() bool { return false }
func (e *Explorer) ShouldAvoidBigObstacles() bool   { return true }

func (e *Explorer) ManeuverPolicy(canShoot bool, nearestEnemy *world.Ship, nearGround bool) Maneuver {
	if e.aggressive {
		return ManeuverEngage
	}
	if nearGround {
		return ManeuverIgnore
	}
	return ManeuverDefault
}

// Tick picks a new waypoint near a planet once the current one is reached.
func (e *Explorer) Tick(w *world.World, shipPos mgl32.Vec2, maxIdleDist float32, hull *types.HullConfig, _ *world.Ship) {
	if geom.Dist(shipPos, e.dest) > maxIdleDist || e.system == nil || len(e.system.Planets) == 0 {
		return
	}
	weights := make([]int, len(e.system.Planets))
	for i := range weights {
		weights[i] = len(weights) - i
	}
	p := e.system.Planets[e.rand.WeightedSelect(weights)]
	var radius float32
	if hull != nil {
		radius = hull.ApproxRadius
	}
	offset := p.FullHeight + radius + e.rand.Float32(p.FullHeight)
	e.dest = world.PlanetPosition(p).Add(geom.FromAngle(e.rand.Float32(360), offset))
}

// Guardian holds a fixed angle around a target ship.
type Guardian struct {
	target   *world.Ship
	relAngle float32
	gap      float32
	dest     mgl32.Vec2
}

// NewGuardian guards target at relAngle degrees from its heading. hull is
// the guardian's own hull.
func NewGuardian(target *world.Ship, hull *types.HullConfig, relAngle float32) *Guardian {
	g := &Guardian{target: target, relAngle: relAngle, gap: GuardDistance}
	if hull != nil {
		g.gap += hull.ApproxRadius
	}
	g.update()
	return g
}

// Target returns the guarded ship.
func (g *Guardian) Target() *world.Ship { return g.target }

// RelativeAngle returns the guard angle relative to the target's heading.
func (g *Guardian) RelativeAngle() float32 { return g.relAngle }

func (g *Guardian) update() {
	angle := g.target.Angle + g.relAngle
	g.dest = g.target.Pos.Add(geom.FromAngle(angle, g.target.Radius()+g.gap))
}

func (g *Guardian) Destination() (mgl32.Vec2, bool) {
	if g.target.Dead {
		return mgl32.Vec2{}, false
	}
	return g.dest, true
}

func (g *Guardian) DesiredSpeed() float32           { return speedFor(g.target.Hull) }
func (g *Guardian) ShouldStopNearDestination() bool { return true }
func (g *Guardian) ShouldAvoidBigObstacles() bool   { return false }

func (g *Guardian) ManeuverPolicy(bool, *world.Ship, bool) Maneuver {
	return ManeuverDefault
}

func (g *Guardian) Tick(*world.World, mgl32.Vec2, float32, *types.HullConfig, *world.Ship) {
	if !g.target.Dead {
		g.update()
	}
}

// Beacon is the UI marker a BeaconSeeker follows.
type Beacon interface {
	// BeaconPosition returns the marker position, false when none is set.
	BeaconPosition() (mgl32.Vec2, bool)
}

// BeaconSeeker follows the UI beacon; with no beacon it holds position.
type BeaconSeeker struct {
	beacon Beacon
	speed  float32
	dest   mgl32.Vec2
	has    bool
}

// NewBeaconSeeker creates a provider following beacon.
func NewBeaconSeeker(beacon Beacon, hull *types.HullConfig) *BeaconSeeker {
	return &BeaconSeeker{beacon: beacon, speed: speedFor(hull)}
}

func (b *BeaconSeeker) Destination() (mgl32.Vec2, bool) { return b.dest, b.has }
func (b *BeaconSeeker) DesiredSpeed() float32           { return b.speed }
func (b *BeaconSeeker) ShouldStopNearDestination() bool { return true }
func (b *BeaconSeeker) ShouldAvoidBigObstacles() bool   { return true }

func (b *BeaconSeeker) ManeuverPolicy(bool, *world.Ship, bool) Maneuver {
	return ManeuverDefault
}

func (b *BeaconSeeker) Tick(*world.World, mgl32.Vec2, float32, *types.HullConfig, *world.Ship) {
	if b.beacon == nil {
		b.has = false
		return
	}
	b.dest, b.has = b.beacon.BeaconPosition()
}

// StillGuard holds a fixed point and always engages.
type StillGuard struct {
	dest  mgl32.Vec2
	speed float32
}

// NewStillGuard creates a provider holding target.
func NewStillGuard(target mgl32.Vec2, hull *types.HullConfig) *StillGuard {
	return &StillGuard{dest: target, speed: speedFor(hull)}
}

func (s *StillGuard) Destination() (mgl32.Vec2, bool) { return s.dest, true }
func (s *StillGuard) DesiredSpeed() float32           { return s.speed }
func (s *StillGuard) ShouldStopNearDestination() bool { return true }
func (s *StillGuard) ShouldAvoidBigObstacles() bool   { return false }

func (s *StillGuard) ManeuverPolicy(bool, *world.Ship, bool) Maneuver {
	return ManeuverEngage
}

func (s *StillGuard) Tick(*world.World, mgl32.Vec2, float32, *types.HullConfig, *world.Ship) {}
