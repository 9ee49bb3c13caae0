// Package events turns simulation events into reputation reports.
// Dispatch is single-pass; reports are queued, never applied inline.
package events

import (
	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

// Event types emitted during a tick.
const (
	ShipDamaged   = "ship_damaged"
	ShipDestroyed = "ship_destroyed"
	ItemBought    = "item_bought"
)

// Data keys. Ship references are types.ShipID.
const (
	KeyInstigator = "instigator"
	KeyTarget     = "target"
	KeyItem       = "item"
	KeyDamage     = "damage"
)

// Queue receives the reports Dispatch derives.
type Queue interface {
	Enqueue(instigator, target *faction.Faction, kind faction.EventKind)
}

// Ships resolves ship ids; removed ships are still resolvable for the tick
// that killed them.
type Ships interface {
	Ship(id types.ShipID) (*world.Ship, bool)
}

// Dispatch enqueues one report per player-instigated combat or trade event
// and returns how many it enqueued. Events whose instigator is not piloted
// by the player are ignored.
func Dispatch(evts []types.Event, ships Ships, q Queue) int {
	n := 0
	for _, evt := range evts {
		kind, ok := kindOf(evt.Type)
		if !ok {
			continue
		}
		instigator := lookup(ships, evt.Data[KeyInstigator])
		target := lookup(ships, evt.Data[KeyTarget])
		if instigator == nil || target == nil {
			continue
		}
		if instigator.Pilot == nil || !instigator.Pilot.IsPlayer() {
			continue
		}
		q.Enqueue(instigator.Faction(), target.Faction(), kind)
		n++
	}
	return n
}

func kindOf(eventType string) (faction.EventKind, bool) {
	switch eventType {
	case ShipDamaged:
		return faction.DamagedShip, true
	case ShipDestroyed:
		return faction.DestroyedShip, true
	case ItemBought:
		return faction.BoughtItem, true
	}
	return faction.EventKind{}, false
}

func lookup(ships Ships, v any) *world.Ship {
	id, ok := v.(types.ShipID)
	if !ok {
		return nil
	}
	s, ok := ships.Ship(id)
	if !ok {
		return nil
	}
	return s
}
