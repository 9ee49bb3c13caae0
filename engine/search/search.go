// Package search finds hostile ships and tests line of sight between ships.
package search

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/geom"
	"github.com/Du4lity5151/DestinationSol/engine/world"
)

// NearestEnemy returns the live ship hostile to query whose hull edge is
// closest to pos and no farther than maxDist. Hull-edge distance favors
// large ships. On exact ties the first ship in iteration order wins.
func NearestEnemy(w *world.World, query *faction.Faction, pos mgl32.Vec2, maxDist float32) *world.Ship {
	var nearest *world.Ship
	min := maxDist
	for _, candidate := range w.Ships() {
		if candidate.Dead || !faction.AreEnemies(query, candidate.Faction()) {
			continue
		}
		d := geom.Dist(pos, candidate.Pos) - candidate.Radius()
		if d < min || (nearest == nil && d <= min) {
			min = d
			nearest = candidate
		}
	}
	return nearest
}

// ForShip searches around ship out to its pilot's detection distance plus
// its own hull radius. A pilot with no detection sees nothing.
func ForShip(w *world.World, ship *world.Ship) *world.Ship {
	if ship.Pilot == nil {
		return nil
	}
	detection := ship.Pilot.DetectionDistance()
	if detection <= 0 {
		return nil
	}
	return NearestEnemy(w, ship.Faction(), ship.Pos, detection+ship.Radius())
}

// ForProjectile searches around a projectile out to the camera view
// distance, on behalf of its owner's faction.
func ForProjectile(w *world.World, p *world.Projectile) *world.Ship {
	if p.Owner == nil {
		return nil
	}
	return NearestEnemy(w, p.Owner.Faction(), p.Pos, w.ViewDistance)
}

// Sight is the ray-cast callback state of a line-of-sight test.
// It is reset at the start of every cast, so one value can be reused.
type Sight struct {
	from, to    *world.Ship
	hasObstacle bool
}

// HasObstacles reports whether any ship other than from and to lies on the
// segment between them.
func (s *Sight) HasObstacles(w *world.World, from, to *world.Ship) bool {
	s.from, s.to, s.hasObstacle = from, to, false
	w.RayCast(from.Pos, to.Pos, s.report)
	return s.hasObstacle
}

func (s *Sight) report(hit *world.Ship, _ float32) float32 {
	if hit == s.from || hit == s.to {
		return -1
	}
	s.hasObstacle = true
	return 0
}

// HasObstacles is Sight.HasObstacles on a fresh callback.
func HasObstacles(w *world.World, from, to *world.Ship) bool {
	var s Sight
	return s.HasObstacles(w, from, to)
}
