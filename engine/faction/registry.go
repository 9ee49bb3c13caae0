package faction

import (
	"log/slog"

	"github.com/Du4lity5151/DestinationSol/engine/errs"
	"github.com/Du4lity5151/DestinationSol/types"
)

// Relation is one declared entry of the relation matrix: From holds Value
// toward To.
type Relation struct {
	From  types.FactionID
	To    types.FactionID
	Value int
}

// Registry owns every faction of a run.
type Registry struct {
	factions []*Faction
	byID     map[types.FactionID]*Faction
	events   *Catalog
	logger   *slog.Logger

	player       *Faction
	genericAlly  *Faction
	genericEnemy *Faction
}

// NewRegistry instantiates the factions and wires the declared relations in
// order. Each declaration sets From's view of To, and seeds To's view of
// From with the same value unless To already holds one. Overrides must name
// kinds known to events.
func NewRegistry(defs []Def, relations []Relation, events *Catalog, logger *slog.Logger) (*Registry, error) {
	if events == nil {
		events = NewCatalog()
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		byID:   make(map[types.FactionID]*Faction, len(defs)),
		events: events,
		logger: logger.With("component", "factions"),
	}

	// 1. Instantiate.
	for _, def := range defs {
		if def.ID == "" {
			return nil, errs.ConfigErrorf("faction with empty id")
		}
		if _, dup := r.byID[def.ID]; dup {
			return nil, errs.ConfigErrorf("faction %q defined twice", def.ID)
		}
		for name := range def.ReputationImpacts {
			if _, ok := events.Lookup(name); !ok {
				return nil, errs.ConfigErrorf("faction %q overrides unknown reputation event %q", def.ID, name)
			}
		}
		f := New(def)
		r.factions = append(r.factions, f)
		r.byID[def.ID] = f
	}

	// 2. Wire relations, first mention seeds the reverse side.
	for _, rel := range relations {
		from, ok := r.byID[rel.From]
		if !ok {
			return nil, errs.MissingAssetf("relation from unknown faction %q", rel.From)
		}
		to, ok := r.byID[rel.To]
		if !ok {
			return nil, errs.MissingAssetf("faction %q declares relation to unknown faction %q", rel.From, rel.To)
		}
		from.SetRelation(to, rel.Value)
		if !to.IsAwareOf(from) {
			to.SetRelation(from, rel.Value)
		}
	}

	// 3. Resolve well-known factions.
	var err error
	if r.player, err = r.wellKnown(types.PlayerFaction); err != nil {
		return nil, err
	}
	if r.genericAlly, err = r.wellKnown(types.GenericAllyFaction); err != nil {
		return nil, err
	}
	if r.genericEnemy, err = r.wellKnown(types.GenericEnemyFaction); err != nil {
		return nil, err
	}

	r.logger.Debug("factions loaded", "count", len(r.factions), "relations", len(relations))
	return r, nil
}

func (r *Registry) wellKnown(id types.FactionID) (*Faction, error) {
	f, ok := r.byID[id]
	if !ok {
		return nil, errs.ConfigErrorf("well-known faction %q is not defined", id)
	}
	return f, nil
}

// Factions returns every faction in load order.
func (r *Registry) Factions() []*Faction {
	return r.factions
}

// Get looks up a faction by id.
func (r *Registry) Get(id types.FactionID) (*Faction, bool) {
	f, ok := r.byID[id]
	return f, ok
}

// Events returns the reputation event catalog the registry was built with.
func (r *Registry) Events() *Catalog {
	return r.events
}

func (r *Registry) Player() *Faction       { return r.player }
func (r *Registry) GenericAlly() *Faction  { return r.genericAlly }
func (r *Registry) GenericEnemy() *Faction { return r.genericEnemy }

// BuilderFor returns the first faction, in load order, that manufactures
// hull. It returns nil and logs a warning when no faction does.
func (r *Registry) BuilderFor(hull types.HullDesignID) *Faction {
	for _, f := range r.factions {
		if f.Builds(hull) {
			return f
		}
	}
	r.logger.Warn("no faction builds hull", "hull", hull)
	return nil
}
