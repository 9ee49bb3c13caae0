// Package state holds the immutable asset definitions a game boots from
// and the small run state layered over them.
package state

import (
	"sort"

	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/items"
	"github.com/Du4lity5151/DestinationSol/types"
)

// Defs holds the definitions loaded from the asset modules. Factions are
// kept as definitions; every run builds its own registry from them.
type Defs struct {
	Module      string
	Factions    []faction.Def
	Relations   []faction.Relation
	Events      *faction.Catalog
	Hulls       map[types.HullDesignID]*types.HullConfig
	Items       *items.Catalog
	MainStation *types.ShipRecipe
	Player      *types.ShipRecipe
	Systems     []*types.SystemConfig
}

// NewDefs returns empty definitions with the built-in event kinds.
func NewDefs() *Defs {
	return &Defs{
		Events: faction.NewCatalog(),
		Hulls:  map[types.HullDesignID]*types.HullConfig{},
		Items:  items.NewCatalog(),
	}
}

// Hull returns the hull with the given id.
func (d *Defs) Hull(id types.HullDesignID) (*types.HullConfig, bool) {
	h, ok := d.Hulls[id]
	return h, ok
}

// HullIDs returns every hull id, sorted.
func (d *Defs) HullIDs() []types.HullDesignID {
	ids := make([]types.HullDesignID, 0, len(d.Hulls))
	for id := range d.Hulls {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Run is the mutable per-run bookkeeping.
type Run struct {
	ID         string
	Seed       int64
	Tick       int64
	CommandLog []string
}

// NewRun starts a run.
func NewRun(id string, seed int64) *Run {
	return &Run{ID: id, Seed: seed, CommandLog: []string{}}
}
