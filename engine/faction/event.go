package faction

import (
	"github.com/Du4lity5151/DestinationSol/engine/errs"
)

// EventKind is a reputation event tag with its default signed impact.
// Kinds are persisted and looked up by Name.
type EventKind struct {
	Name          string
	DefaultImpact int
}

// Built-in reputation events.
var (
	DamagedShip   = EventKind{Name: "DamagedShip", DefaultImpact: -1}
	DestroyedShip = EventKind{Name: "DestroyedShip", DefaultImpact: -20}
	BoughtItem    = EventKind{Name: "BoughtItem", DefaultImpact: 1}
)

// Catalog is the set of known event kinds. Modules extend it at load time.
type Catalog struct {
	kinds map[string]EventKind
	order []string
}

// NewCatalog returns a catalog holding the built-in kinds.
func NewCatalog() *Catalog {
	c := &Catalog{kinds: make(map[string]EventKind)}
	for _, k := range []EventKind{DamagedShip, DestroyedShip, BoughtItem} {
		c.kinds[k.Name] = k
		c.order = append(c.order, k.Name)
	}
	return c
}

// Register adds a new kind. Names are unique.
func (c *Catalog) Register(kind EventKind) error {
	if kind.Name == "" {
		return errs.ConfigErrorf("reputation event has no name")
	}
	if _, dup := c.kinds[kind.Name]; dup {
		return errs.ConfigErrorf("reputation event %q already registered", kind.Name)
	}
	c.kinds[kind.Name] = kind
	c.order = append(c.order, kind.Name)
	return nil
}

// Lookup finds a kind by name.
func (c *Catalog) Lookup(name string) (EventKind, bool) {
	k, ok := c.kinds[name]
	return k, ok
}

// Kinds returns every kind in registration order.
func (c *Catalog) Kinds() []EventKind {
	out := make([]EventKind, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.kinds[name])
	}
	return out
}
