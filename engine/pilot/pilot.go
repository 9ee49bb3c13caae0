// Package pilot implements ship controllers: the UI-controlled pilot that
// proxies a control surface, and the AI pilot steered by a destination
// provider.
package pilot

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/geom"
	"github.com/Du4lity5151/DestinationSol/engine/search"
	"github.com/Du4lity5151/DestinationSol/engine/world"
)

// Detection and steering constants.
const (
	// AIDetectionDistance is the base detection distance of AI ships.
	AIDetectionDistance = 9
	// AutoShootDistance is the UI pilot's detection distance, used only by
	// unfixed gun mounts.
	AutoShootDistance = 3
	// MaxIdleDistance is how close to a destination counts as arrived.
	MaxIdleDistance = 0.5

	minMoveAngle  = 5  // degrees of heading error tolerated without turning
	maxShotAngle  = 10 // degrees of heading error tolerated when firing
	maxBurnAngle  = 45 // thrust only when roughly facing the target
	stopDistScale = 2  // braking distance in multiples of the hull radius
)

// Controls is the control surface a UI pilot reads.
type Controls interface {
	Up() bool
	Left() bool
	Right() bool
	Shoot() bool
	Shoot2() bool
	Ability() bool
}

// UIControlled proxies a control surface. It is always the player.
type UIControlled struct {
	controls Controls
	faction  *faction.Faction
}

// NewUIControlled creates a player pilot.
func NewUIControlled(f *faction.Faction, controls Controls) *UIControlled {
	return &UIControlled{controls: controls, faction: f}
}

func (p *UIControlled) Up() bool                   { return p.controls.Up() }
func (p *UIControlled) Left() bool                 { return p.controls.Left() }
func (p *UIControlled) Right() bool                { return p.controls.Right() }
func (p *UIControlled) Shoot() bool                { return p.controls.Shoot() }
func (p *UIControlled) Shoot2() bool               { return p.controls.Shoot2() }
func (p *UIControlled) Ability() bool              { return p.controls.Ability() }
func (p *UIControlled) CollectsItems() bool        { return true }
func (p *UIControlled) ShootsAtObstacles() bool    { return false }
func (p *UIControlled) DetectionDistance() float32 { return AutoShootDistance }
func (p *UIControlled) Faction() *faction.Faction  { return p.faction }
func (p *UIControlled) MapHint() string            { return "You" }
func (p *UIControlled) IsPlayer() bool             { return true }

// Update does nothing; intents come from the controls.
func (p *UIControlled) Update(*world.World, *world.Ship, *world.Ship) {}

// UpdateFar does nothing.
func (p *UIControlled) UpdateFar(*world.World, *world.Ship) {}

// ManualControls is a settable control surface, used by the console and
// in tests.
type ManualControls struct {
	U, L, R, S, S2, A bool
}

func (c *ManualControls) Up() bool      { return c.U }
func (c *ManualControls) Left() bool    { return c.L }
func (c *ManualControls) Right() bool   { return c.R }
func (c *ManualControls) Shoot() bool   { return c.S }
func (c *ManualControls) Shoot2() bool  { return c.S2 }
func (c *ManualControls) Ability() bool { return c.A }

// AI computes intents from a destination provider and the nearest enemy.
type AI struct {
	dest              DestProvider
	collectsItems     bool
	faction           *faction.Faction
	shootsAtObstacles bool
	mapHint           string
	detection         float32

	up, left, right, shoot, shoot2, ability bool

	sight search.Sight
}

// NewAI creates an AI pilot.
func NewAI(dest DestProvider, collectsItems bool, f *faction.Faction, shootsAtObstacles bool, mapHint string, detection float32) *AI {
	return &AI{
		dest:              dest,
		collectsItems:     collectsItems,
		faction:           f,
		shootsAtObstacles: shootsAtObstacles,
		mapHint:           mapHint,
		detection:         detection,
	}
}

func (p *AI) Up() bool                   { return p.up }
func (p *AI) Left() bool                 { return p.left }
func (p *AI) Right() bool                { return p.right }
func (p *AI) Shoot() bool                { return p.shoot }
func (p *AI) Shoot2() bool               { return p.shoot2 }
func (p *AI) Ability() bool              { return p.ability }
func (p *AI) CollectsItems() bool        { return p.collectsItems }
func (p *AI) ShootsAtObstacles() bool    { return p.shootsAtObstacles }
func (p *AI) DetectionDistance() float32 { return p.detection }
func (p *AI) Faction() *faction.Faction  { return p.faction }
func (p *AI) MapHint() string            { return p.mapHint }
func (p *AI) IsPlayer() bool             { return false }

// Destination returns the pilot's destination provider.
func (p *AI) Destination() DestProvider {
	return p.dest
}

// Update recomputes intents for a live ship.
func (p *AI) Update(w *world.World, ship *world.Ship, nearestEnemy *world.Ship) {
	p.up, p.left, p.right, p.shoot, p.shoot2, p.ability = false, false, false, false, false, false

	// 1. Let the provider move its destination.
	p.dest.Tick(w, ship.Pos, MaxIdleDistance, ship.Hull, nearestEnemy)

	// 2. Decide whether to fight.
	canShoot := ship.CanShoot()
	engage := false
	if nearestEnemy != nil {
		switch p.dest.ManeuverPolicy(canShoot, nearestEnemy, w.NearGround(ship.Pos)) {
		case ManeuverEngage:
			engage = true
		case ManeuverDefault:
			engage = canShoot
		}
	}

	if engage {
		p.fight(w, ship, nearestEnemy, canShoot)
		return
	}

	// 3. Otherwise fly to the destination.
	dest, ok := p.dest.Destination()
	if !ok {
		return
	}
	dist := geom.Dist(ship.Pos, dest)
	if p.dest.ShouldStopNearDestination() && dist < ship.Radius()*stopDistScale+MaxIdleDistance {
		return
	}
	p.steer(ship, dest, p.dest.DesiredSpeed())
}

func (p *AI) fight(w *world.World, ship, enemy *world.Ship, canShoot bool) {
	p.steer(ship, enemy.Pos, p.dest.DesiredSpeed())
	if !canShoot {
		return
	}
	aim := geom.AngleDiff(geom.AngleTo(ship.Pos, enemy.Pos), ship.Angle)
	if aim > maxShotAngle {
		return
	}
	if !p.shootsAtObstacles && p.sight.HasObstacles(w, ship, enemy) {
		return
	}
	p.shoot = true
	p.shoot2 = len(ship.Guns) > 1
}

func (p *AI) steer(ship *world.Ship, target mgl32.Vec2, desiredSpeed float32) {
	diff := geom.SignedAngle(geom.AngleTo(ship.Pos, target) - ship.Angle)
	if diff > minMoveAngle {
		p.right = true
	} else if diff < -minMoveAngle {
		p.left = true
	}
	if diff < maxBurnAngle && diff > -maxBurnAngle && ship.Vel.Len() < desiredSpeed {
		p.up = true
	}
}

// UpdateFar moves an off-screen ship straight toward its destination.
func (p *AI) UpdateFar(w *world.World, ship *world.Ship) {
	p.dest.Tick(w, ship.Pos, MaxIdleDistance, ship.Hull, nil)
	dest, ok := p.dest.Destination()
	if !ok {
		return
	}
	step := p.dest.DesiredSpeed() * w.TimeStep
	diff := dest.Sub(ship.Pos)
	l := diff.Len()
	if l == 0 {
		return
	}
	ship.Angle = geom.AngleTo(ship.Pos, dest)
	if l <= step {
		ship.Pos = dest
	} else {
		ship.Pos = ship.Pos.Add(diff.Mul(step / l))
	}
}
