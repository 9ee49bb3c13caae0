// Package resolve maps names typed at the console to factions, ships and
// systems.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

// AmbiguityError indicates multiple candidates matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates nothing matched a name.
type NotFoundError struct {
	What string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s named %q", e.What, e.Name)
}

// Faction resolves name against the registry. In order: exact id, the key
// after the module prefix, then display name. Matching is case-insensitive.
func Faction(reg *faction.Registry, name string) (*faction.Faction, error) {
	// 1. Exact id.
	if f, ok := reg.Get(types.FactionID(name)); ok {
		return f, nil
	}

	// 2. Key or display name.
	nameLower := strings.ToLower(name)
	var matches []*faction.Faction
	for _, f := range reg.Factions() {
		if matchesFaction(f, nameLower) {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return nil, &NotFoundError{What: "faction", Name: name}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, f := range matches {
			ids[i] = string(f.ID())
		}
		return nil, &AmbiguityError{Name: name, Candidates: ids}
	}
}

func matchesFaction(f *faction.Faction, nameLower string) bool {
	id := strings.ToLower(string(f.ID()))
	if id == nameLower {
		return true
	}
	if _, key, ok := strings.Cut(id, ":"); ok && key == nameLower {
		return true
	}
	return strings.ToLower(f.Name()) == nameLower
}

// Ship resolves name to a ship: a numeric id, "hero" for the hero ship, or
// a hull id or hull key shared by exactly one ship.
func Ship(w *world.World, name string) (*world.Ship, error) {
	// 1. Numeric id.
	if id, err := strconv.Atoi(name); err == nil {
		if s, ok := w.Ship(types.ShipID(id)); ok {
			return s, nil
		}
		return nil, &NotFoundError{What: "ship", Name: name}
	}

	// 2. The hero.
	nameLower := strings.ToLower(name)
	if nameLower == "hero" || nameLower == "me" {
		if h := w.Hero(); h != nil {
			return h, nil
		}
		return nil, &NotFoundError{What: "ship", Name: name}
	}

	// 3. Hull.
	var matches []*world.Ship
	for _, s := range w.AllShips() {
		if s.Hull == nil {
			continue
		}
		hull := strings.ToLower(string(s.Hull.ID))
		_, key, _ := strings.Cut(hull, ":")
		if hull == nameLower || key == nameLower {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return nil, &NotFoundError{What: "ship", Name: name}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, s := range matches {
			ids[i] = strconv.Itoa(int(s.ID))
		}
		return nil, &AmbiguityError{Name: name, Candidates: ids}
	}
}

// System resolves name to a system index: a 1-based number or a system
// name, case-insensitive.
func System(g *types.Galaxy, name string) (int, error) {
	if n, err := strconv.Atoi(name); err == nil {
		if n >= 1 && n <= len(g.Systems) {
			return n - 1, nil
		}
		return -1, &NotFoundError{What: "system", Name: name}
	}
	for i, sys := range g.Systems {
		if strings.EqualFold(sys.Name, name) {
			return i, nil
		}
	}
	return -1, &NotFoundError{What: "system", Name: name}
}
