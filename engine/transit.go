package engine

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Du4lity5151/DestinationSol/engine/geom"
	"github.com/Du4lity5151/DestinationSol/engine/hero"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

// TransitSpeed is how fast a capsule crosses between star ports, in units
// per second.
const TransitSpeed = 15

// transit is the hero's ship parked while its capsule flies to exit.
type transit struct {
	ship *world.Ship
	exit *world.StarPort
}

// cmdTravel lists the star ports of the hero's system, or sends the hero
// through the numbered one. Numbers index World.StarPorts from 1.
func (e *Engine) cmdTravel(args []string) types.Result {
	var result types.Result
	say := func(s string) types.Result {
		result.Output = append(result.Output, s)
		return result
	}
	if len(args) > 1 {
		return say("usage: travel [port]")
	}
	if e.Hero.IsDead() {
		return say("You are dead.")
	}
	ship, err := e.Hero.Ship()
	if err != nil {
		return say("You are in transit.")
	}
	ports := e.World.StarPorts()

	// 1. No argument: list what leaves from here.
	if len(args) == 0 {
		for i, sp := range ports {
			if systemOf(e.World.Galaxy, sp.From) != ship.System {
				continue
			}
			result.Output = append(result.Output, fmt.Sprintf("%d. %s -> %s", i+1, sp.From.Name, sp.To.Name))
		}
		if len(result.Output) == 0 {
			return say("No star ports here.")
		}
		return result
	}

	// 2. Resolve the entry port and its far end.
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(ports) {
		return say(fmt.Sprintf("No star port %q.", args[0]))
	}
	port := ports[n-1]
	if systemOf(e.World.Galaxy, port.From) != ship.System {
		return say(fmt.Sprintf("Star port %d is in another system.", n))
	}
	exit := exitFor(ports, port)
	if exit == nil {
		return say(fmt.Sprintf("Star port %d leads nowhere.", n))
	}

	// 3. Swap the ship for a capsule at the entry port.
	c := hero.CapsuleFor(ship, port)
	c.Pos = port.Pos
	c.Angle = geom.AngleTo(port.Pos, exit.Pos)
	c.Vel = geom.FromAngle(c.Angle, TransitSpeed)
	if err := e.Hero.EnterTransit(c); err != nil {
		return say(err.Error())
	}
	delete(e.reload, ship.ID)
	e.World.RemoveShip(ship)
	e.World.SetHero(nil)
	e.transit = &transit{ship: ship, exit: exit}

	e.logger.Info("hero entered transit", "from", port.From.Name, "to", port.To.Name)
	return say(fmt.Sprintf("You enter the star port at %s, bound for %s.", port.From.Name, port.To.Name))
}

// stepTransit moves the capsule toward its exit port and re-embodies the
// hero on arrival.
func (e *Engine) stepTransit(dt float32) []string {
	t, c := e.transit, e.Hero.Capsule()
	if t == nil || c == nil {
		return nil
	}
	gap := t.exit.Pos.Sub(c.Pos)
	d := gap.Len()
	if step := float32(TransitSpeed) * dt; d > step {
		c.Pos = c.Pos.Add(gap.Mul(step / d))
		return nil
	}

	ship := t.ship
	ship.Dead = false
	ship.Pos = t.exit.Pos
	ship.Vel = mgl32.Vec2{}
	ship.Angle = t.exit.Angle
	ship.Life, ship.Money, ship.Items, ship.Pilot = c.Life, c.Money, c.Items, c.Pilot
	if sys := systemOf(e.World.Galaxy, t.exit.From); sys >= 0 {
		ship.System = sys
	}
	e.World.AddShip(ship)
	e.World.SetHero(ship)
	e.Hero.Embody(ship)
	e.transit = nil

	e.logger.Info("hero left transit", "at", t.exit.From.Name, "ship", ship.ID)
	return []string{fmt.Sprintf("You arrive at %s.", t.exit.From.Name)}
}

// exitFor returns the endpoint on port's far planet facing back.
func exitFor(ports []*world.StarPort, port *world.StarPort) *world.StarPort {
	for _, sp := range ports {
		if sp.From == port.To && sp.To == port.From {
			return sp
		}
	}
	return nil
}

// systemOf returns the index of the system holding p, or -1.
func systemOf(g *types.Galaxy, p *types.Planet) int {
	for i, sys := range g.Systems {
		for _, q := range sys.Planets {
			if q == p {
				return i
			}
		}
	}
	return -1
}
