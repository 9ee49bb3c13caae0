// Package faction models factions, their reputation toward each other,
// and the registry that wires the initial relation matrix.
package faction

import (
	"fmt"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Du4lity5151/DestinationSol/types"
)

// Reputation bounds.
const (
	MinRelation = -100
	MaxRelation = 100
)

// Colour is a faction display colour with alpha.
type Colour struct {
	colorful.Color
	Alpha float64
}

// ParseColour parses "#RRGGBB" or "#RRGGBBAA".
func ParseColour(s string) (Colour, error) {
	switch len(s) {
	case 7:
		c, err := colorful.Hex(s)
		if err != nil {
			return Colour{}, err
		}
		return Colour{Color: c, Alpha: 1}, nil
	case 9:
		c, err := colorful.Hex(s[:7])
		if err != nil {
			return Colour{}, err
		}
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Colour{}, fmt.Errorf("colour %q: bad alpha: %w", s, err)
		}
		return Colour{Color: c, Alpha: float64(a) / 255}, nil
	default:
		return Colour{}, fmt.Errorf("colour %q: want #RRGGBB or #RRGGBBAA", s)
	}
}

// Def is the load-time description of a faction.
type Def struct {
	ID                 types.FactionID
	Name               string
	Description        string
	Colour             Colour
	ShipDesigns        []types.HullDesignID
	DefaultDisposition int
	ReputationImpacts  map[string]int // event name -> delta override
}

// Faction is a diplomatic group. Everything but the relation map is fixed
// after construction.
type Faction struct {
	id                 types.FactionID
	name               string
	description        string
	colour             Colour
	designs            []types.HullDesignID
	defaultDisposition int
	relations          map[types.FactionID]int
	overrides          map[string]int
}

// New creates a faction from its definition. The default disposition is
// clamped; the relation map starts empty.
func New(def Def) *Faction {
	f := &Faction{
		id:                 def.ID,
		name:               def.Name,
		description:        def.Description,
		colour:             def.Colour,
		designs:            append([]types.HullDesignID(nil), def.ShipDesigns...),
		defaultDisposition: clamp(def.DefaultDisposition),
		relations:          make(map[types.FactionID]int),
		overrides:          make(map[string]int, len(def.ReputationImpacts)),
	}
	for name, delta := range def.ReputationImpacts {
		f.overrides[name] = delta
	}
	return f
}

func (f *Faction) ID() types.FactionID               { return f.id }
func (f *Faction) Name() string                      { return f.name }
func (f *Faction) Description() string               { return f.description }
func (f *Faction) Colour() Colour                    { return f.colour }
func (f *Faction) DefaultDisposition() int           { return f.defaultDisposition }
func (f *Faction) ShipDesigns() []types.HullDesignID { return f.designs }

// DisplayName returns the name, falling back to the id.
func (f *Faction) DisplayName() string {
	if f.name != "" {
		return f.name
	}
	return string(f.id)
}

// Builds reports whether the faction manufactures the hull.
func (f *Faction) Builds(hull types.HullDesignID) bool {
	for _, d := range f.designs {
		if d == hull {
			return true
		}
	}
	return false
}

// GetRelation returns this faction's reputation toward other.
// A faction always holds +100 toward itself.
func (f *Faction) GetRelation(other *Faction) int {
	if other == nil {
		return f.defaultDisposition
	}
	if other.id == f.id {
		return MaxRelation
	}
	if v, ok := f.relations[other.id]; ok {
		return v
	}
	return f.defaultDisposition
}

// SetRelation stores a clamped reputation toward other. No-op for self.
// Gameplay changes go through the reputation service.
func (f *Faction) SetRelation(other *Faction, v int) {
	if other == nil || other.id == f.id {
		return
	}
	f.relations[other.id] = clamp(v)
}

// IsAwareOf reports whether a relation toward other has been stored.
func (f *Faction) IsAwareOf(other *Faction) bool {
	if other == nil {
		return false
	}
	_, ok := f.relations[other.id]
	return ok
}

// ReputationImpact returns the delta this faction applies for kind
// when it is the target of the event.
func (f *Faction) ReputationImpact(kind EventKind) int {
	if d, ok := f.overrides[kind.Name]; ok {
		return d
	}
	return kind.DefaultImpact
}

// Overrides returns a copy of the per-event impact overrides.
func (f *Faction) Overrides() map[string]int {
	out := make(map[string]int, len(f.overrides))
	for k, v := range f.overrides {
		out[k] = v
	}
	return out
}

func (f *Faction) String() string {
	return fmt.Sprintf("%s (%s)", f.DisplayName(), f.id)
}

// AreEnemies reports whether candidate is hostile toward query.
// A nil faction is never hostile.
func AreEnemies(query, candidate *Faction) bool {
	if query == nil || candidate == nil {
		return false
	}
	return candidate.GetRelation(query) < 0
}

func clamp(v int) int {
	if v < MinRelation {
		return MinRelation
	}
	if v > MaxRelation {
		return MaxRelation
	}
	return v
}
