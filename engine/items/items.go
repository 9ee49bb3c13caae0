// Package items holds the item catalog and the items-script filler.
//
// An items script is a list of groups separated by spaces or commas:
//
//	group := code[|code]*[:chance[:count]]
//
// For each of count copies, the group yields one item with probability
// chance, picking uniformly among the alternative codes.
package items

import (
	"strconv"
	"strings"

	"github.com/Du4lity5151/DestinationSol/engine/errs"
	"github.com/Du4lity5151/DestinationSol/engine/rng"
	"github.com/Du4lity5151/DestinationSol/types"
)

// Group is one parsed items-script group.
type Group struct {
	Codes  []string
	Chance float32
	Count  int
}

// Parse splits an items script into groups. Codes may carry a module
// prefix ("core:blaster"); chance and count follow the last alternative.
func Parse(script string) ([]Group, error) {
	fields := strings.FieldsFunc(script, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	groups := make([]Group, 0, len(fields))
	for _, field := range fields {
		alts := strings.Split(field, "|")
		g := Group{Chance: 1, Count: 1}
		for _, alt := range alts[:len(alts)-1] {
			code, rest := splitCode(alt)
			if code == "" || len(rest) > 0 {
				return nil, errs.ConfigErrorf("items script: bad alternative in %q", field)
			}
			g.Codes = append(g.Codes, code)
		}
		code, params := splitCode(alts[len(alts)-1])
		if code == "" || len(params) > 2 {
			return nil, errs.ConfigErrorf("items script: malformed group %q", field)
		}
		g.Codes = append(g.Codes, code)
		if len(params) > 0 {
			chance, err := strconv.ParseFloat(params[0], 32)
			if err != nil {
				return nil, errs.ConfigErrorf("items script: bad chance in %q", field)
			}
			if chance <= 0 || chance > 1 {
				return nil, errs.ConfigErrorf("items script: chance %v in %q must be in (0, 1]", chance, field)
			}
			g.Chance = float32(chance)
		}
		if len(params) > 1 {
			count, err := strconv.Atoi(params[1])
			if err != nil || count < 1 {
				return nil, errs.ConfigErrorf("items script: bad count in %q", field)
			}
			g.Count = count
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// splitCode separates "module:key:chance:count" into the code and its
// trailing parameters. A second part that is not a number is the key.
func splitCode(s string) (string, []string) {
	parts := strings.Split(s, ":")
	if parts[0] == "" {
		return "", nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	if _, err := strconv.ParseFloat(parts[1], 32); err == nil {
		return parts[0], parts[1:]
	}
	if parts[1] == "" {
		return "", nil
	}
	return parts[0] + ":" + parts[1], parts[2:]
}

// Catalog maps item codes to their configs.
type Catalog struct {
	items map[string]types.ItemConfig
	order []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{items: make(map[string]types.ItemConfig)}
}

// Register adds an item. Codes are unique.
func (c *Catalog) Register(item types.ItemConfig) error {
	if item.Code == "" {
		return errs.ConfigErrorf("item with empty code")
	}
	if _, dup := c.items[item.Code]; dup {
		return errs.ConfigErrorf("item %q registered twice", item.Code)
	}
	c.items[item.Code] = item
	c.order = append(c.order, item.Code)
	return nil
}

// Get looks up an item by code.
func (c *Catalog) Get(code string) (types.ItemConfig, bool) {
	it, ok := c.items[code]
	return it, ok
}

// Codes returns every code in registration order.
func (c *Catalog) Codes() []string {
	return c.order
}

// Validate checks that script parses and names only known items.
func (c *Catalog) Validate(script string) error {
	groups, err := Parse(script)
	if err != nil {
		return err
	}
	for _, g := range groups {
		for _, code := range g.Codes {
			if _, ok := c.items[code]; !ok {
				return errs.ConfigErrorf("items script: unknown item %q", code)
			}
		}
	}
	return nil
}

// Fill rolls script against r and returns the resulting items.
func (c *Catalog) Fill(script string, r *rng.RNG) ([]types.ItemConfig, error) {
	if err := c.Validate(script); err != nil {
		return nil, err
	}
	groups, _ := Parse(script)
	var out []types.ItemConfig
	for _, g := range groups {
		for i := 0; i < g.Count; i++ {
			if !r.Test(g.Chance) {
				continue
			}
			code := g.Codes[0]
			if len(g.Codes) > 1 {
				code = g.Codes[r.Intn(len(g.Codes))]
			}
			out = append(out, c.items[code])
		}
	}
	return out, nil
}
