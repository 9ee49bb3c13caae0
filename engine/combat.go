package engine

import (
	"github.com/Du4lity5151/DestinationSol/engine/events"
	"github.com/Du4lity5151/DestinationSol/engine/geom"
	"github.com/Du4lity5151/DestinationSol/engine/search"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

// Weapon constants. Times are in seconds, angles in degrees.
const (
	ProjectileSpeed  = 12
	ProjectileDamage = 5
	ProjectileTTL    = 1.5
	ReloadTime       = 0.5
	// MinGuideAngle is the heading error below which a guided projectile
	// holds its course.
	MinGuideAngle = 2
	muzzleGap     = 0.1
)

// fire spawns a projectile for every gun slot whose trigger is held and
// whose ship has reloaded.
func (e *Engine) fire(dt float32) {
	for _, s := range e.World.Ships() {
		if s.Dead || s.Pilot == nil || !s.CanShoot() {
			continue
		}
		if e.reload[s.ID] > 0 {
			e.reload[s.ID] -= dt
			continue
		}
		fired := false
		for slot, held := range []bool{s.Pilot.Shoot(), s.Pilot.Shoot2()} {
			if !held || slot >= len(s.Guns) {
				continue
			}
			e.World.AddProjectile(&world.Projectile{
				Owner:      s,
				Pos:        s.Pos.Add(geom.FromAngle(s.Angle, s.Radius()+muzzleGap)),
				Angle:      s.Angle,
				Speed:      ProjectileSpeed,
				Damage:     ProjectileDamage,
				GuideSpeed: s.Guns[slot].GuideSpeed,
				TTL:        ProjectileTTL,
			})
			fired = true
		}
		if fired {
			e.reload[s.ID] = ReloadTime
		}
	}
}

// guide turns p toward the nearest enemy of its owner, by at most
// GuideSpeed*dt degrees.
func guide(w *world.World, p *world.Projectile, dt float32) {
	if p.GuideSpeed <= 0 {
		return
	}
	target := search.ForProjectile(w, p)
	if target == nil {
		return
	}
	diff := geom.SignedAngle(geom.AngleTo(p.Pos, target.Pos) - p.Angle)
	if diff > -MinGuideAngle && diff < MinGuideAngle {
		return
	}
	limit := p.GuideSpeed * dt
	if diff > limit {
		diff = limit
	} else if diff < -limit {
		diff = -limit
	}
	p.Angle = geom.NormAngle(p.Angle + diff)
}

// stepProjectiles moves every projectile, applies hits and returns the
// combat events of the step.
func (e *Engine) stepProjectiles(dt float32) []types.Event {
	w := e.World
	var evts []types.Event
	for _, p := range w.Projectiles() {
		if p.Done {
			continue
		}
		guide(w, p, dt)

		to := p.Pos.Add(geom.FromAngle(p.Angle, p.Speed*dt))
		var hit *world.Ship
		w.RayCast(p.Pos, to, func(s *world.Ship, _ float32) float32 {
			if s == p.Owner || s.Dead || s.Far {
				return -1
			}
			hit = s
			return 0
		})
		if hit != nil {
			p.Done = true
			evts = append(evts, e.damage(p.Owner, hit, p.Damage)...)
			continue
		}

		p.Pos = to
		p.TTL -= dt
		if p.TTL <= 0 {
			p.Done = true
		}
	}
	w.SweepProjectiles()
	return evts
}

// damage applies amount to target. A kill marks the ship dead; it is
// swept at the end of the tick.
func (e *Engine) damage(instigator, target *world.Ship, amount float32) []types.Event {
	if target == e.World.Hero() && e.Hero.IsInvincible() {
		return nil
	}
	target.Life -= amount
	evts := []types.Event{{
		Type: events.ShipDamaged,
		Data: map[string]any{
			events.KeyInstigator: instigator.ID,
			events.KeyTarget:     target.ID,
			events.KeyDamage:     amount,
		},
	}}
	if target.Life <= 0 {
		target.Life = 0
		target.Dead = true
		evts = append(evts, types.Event{
			Type: events.ShipDestroyed,
			Data: map[string]any{
				events.KeyInstigator: instigator.ID,
				events.KeyTarget:     target.ID,
			},
		})
	}
	return evts
}
