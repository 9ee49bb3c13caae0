// Package hero models the player's presence in the world: either embodied
// in a ship or in transit through a star port inside a capsule.
package hero

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Du4lity5151/DestinationSol/engine/errs"
	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

// Capsule carries the hero through a star port. It holds only what
// survives the transit.
type Capsule struct {
	Pos   mgl32.Vec2
	Vel   mgl32.Vec2
	Angle float32
	Life  float32
	Money int
	Items []types.ItemConfig
	Pilot world.Pilot
	From  *world.StarPort
}

// CapsuleFor packs a ship's transferable state into a capsule leaving
// through port.
func CapsuleFor(ship *world.Ship, port *world.StarPort) *Capsule {
	return &Capsule{
		Pos:   ship.Pos,
		Vel:   ship.Vel,
		Angle: ship.Angle,
		Life:  ship.Life,
		Money: ship.Money,
		Items: append([]types.ItemConfig(nil), ship.Items...),
		Pilot: ship.Pilot,
		From:  port,
	}
}

// Hero is Embodied (ship set) or InTransit (capsule set), never both.
type Hero struct {
	ship       *world.Ship
	capsule    *Capsule
	waypoints  []types.Waypoint
	mercs      []*world.Ship
	dead       bool
	invincible bool
}

// New creates an embodied hero.
func New(ship *world.Ship) *Hero {
	return &Hero{ship: ship}
}

// IsTranscendent reports whether the hero is in transit.
func (h *Hero) IsTranscendent() bool {
	return h.capsule != nil
}

// State returns "embodied" or "in_transit".
func (h *Hero) State() string {
	if h.IsTranscendent() {
		return "in_transit"
	}
	return "embodied"
}

func (h *Hero) embodied(op string) error {
	if h.IsTranscendent() {
		return errs.InvalidStatef("hero: %s requires a ship, hero is in transit", op)
	}
	return nil
}

// EnterTransit binds a capsule; the ship is released.
func (h *Hero) EnterTransit(c *Capsule) error {
	if err := h.embodied("enter transit"); err != nil {
		return err
	}
	h.capsule = c
	h.ship = nil
	return nil
}

// Embody rebinds a ship and clears the capsule.
func (h *Hero) Embody(ship *world.Ship) {
	h.ship = ship
	h.capsule = nil
}

// Capsule returns the transit capsule, or nil when embodied.
func (h *Hero) Capsule() *Capsule {
	return h.capsule
}

// Ship returns the hero's ship.
func (h *Hero) Ship() (*world.Ship, error) {
	if err := h.embodied("ship"); err != nil {
		return nil, err
	}
	return h.ship, nil
}

// Hull returns the ship's hull.
func (h *Hero) Hull() (*types.HullConfig, error) {
	if err := h.embodied("hull"); err != nil {
		return nil, err
	}
	return h.ship.Hull, nil
}

// Acceleration returns the ship's thrust.
func (h *Hero) Acceleration() (float32, error) {
	if err := h.embodied("acceleration"); err != nil {
		return 0, err
	}
	return world.Acceleration, nil
}

// RotationSpeed returns the ship's turn rate in degrees per second.
func (h *Hero) RotationSpeed() (float32, error) {
	if err := h.embodied("rotation speed"); err != nil {
		return 0, err
	}
	return world.RotationSpeed, nil
}

// CanUseAbility reports whether the ship's ability is ready.
func (h *Hero) CanUseAbility() (bool, error) {
	if err := h.embodied("ability"); err != nil {
		return false, err
	}
	return h.ship.Hull != nil && h.ship.Hull.Type != types.HullStation, nil
}

// SetMoney sets the ship's money.
func (h *Hero) SetMoney(money int) error {
	if err := h.embodied("set money"); err != nil {
		return err
	}
	h.ship.Money = money
	return nil
}

// Mercenaries returns hired ships.
func (h *Hero) Mercenaries() ([]*world.Ship, error) {
	if err := h.embodied("mercenaries"); err != nil {
		return nil, err
	}
	return h.mercs, nil
}

// Hire adds a mercenary.
func (h *Hero) Hire(s *world.Ship) error {
	if err := h.embodied("hire"); err != nil {
		return err
	}
	h.mercs = append(h.mercs, s)
	return nil
}

// Equip mounts a gun from cargo.
func (h *Hero) Equip(code string) error {
	if err := h.embodied("equip"); err != nil {
		return err
	}
	return h.ship.Equip(code)
}

// Unequip returns a mounted gun to cargo.
func (h *Hero) Unequip(code string) error {
	if err := h.embodied("unequip"); err != nil {
		return err
	}
	return h.ship.Unequip(code)
}

// Position is defined in both states.
func (h *Hero) Position() mgl32.Vec2 {
	if h.capsule != nil {
		return h.capsule.Pos
	}
	return h.ship.Pos
}

// Velocity is defined in both states.
func (h *Hero) Velocity() mgl32.Vec2 {
	if h.capsule != nil {
		return h.capsule.Vel
	}
	return h.ship.Vel
}

// Angle is defined in both states.
func (h *Hero) Angle() float32 {
	if h.capsule != nil {
		return h.capsule.Angle
	}
	return h.ship.Angle
}

// Life is defined in both states.
func (h *Hero) Life() float32 {
	if h.capsule != nil {
		return h.capsule.Life
	}
	return h.ship.Life
}

// Money is defined in both states.
func (h *Hero) Money() int {
	if h.capsule != nil {
		return h.capsule.Money
	}
	return h.ship.Money
}

// Items returns the cargo in both states.
func (h *Hero) Items() []types.ItemConfig {
	if h.capsule != nil {
		return h.capsule.Items
	}
	return h.ship.Items
}

// Pilot is defined in both states.
func (h *Hero) Pilot() world.Pilot {
	if h.capsule != nil {
		return h.capsule.Pilot
	}
	return h.ship.Pilot
}

// Faction returns the pilot's faction.
func (h *Hero) Faction() *faction.Faction {
	if p := h.Pilot(); p != nil {
		return p.Faction()
	}
	return nil
}

// AddWaypoint appends a map marker.
func (h *Hero) AddWaypoint(wp types.Waypoint) {
	h.waypoints = append(h.waypoints, wp)
}

// RemoveWaypoint drops the first marker at pos. It reports whether one
// was removed.
func (h *Hero) RemoveWaypoint(pos mgl32.Vec2) bool {
	for i, wp := range h.waypoints {
		if wp.Position == pos {
			h.waypoints = append(h.waypoints[:i], h.waypoints[i+1:]...)
			return true
		}
	}
	return false
}

// Waypoints returns the markers in insertion order.
func (h *Hero) Waypoints() []types.Waypoint {
	return h.waypoints
}

// Die marks the hero dead unless invincible.
func (h *Hero) Die() {
	if !h.invincible {
		h.dead = true
	}
}

func (h *Hero) IsDead() bool         { return h.dead }
func (h *Hero) IsAlive() bool        { return !h.dead }
func (h *Hero) IsInvincible() bool   { return h.invincible }
func (h *Hero) SetInvincible(v bool) { h.invincible = v }
