package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Du4lity5151/DestinationSol/engine/errs"
	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/populate"
	"github.com/Du4lity5151/DestinationSol/engine/state"
	"github.com/Du4lity5151/DestinationSol/types"
)

// Asset documents as they appear on disk.

type hullDoc struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	ApproxRadius float32 `json:"approxRadius"`
	Size         float32 `json:"size"`
	Speed        float32 `json:"speed"`
}

type itemDoc struct {
	Code       string  `json:"code"`
	Kind       string  `json:"kind"`
	Price      int     `json:"price"`
	GuideSpeed float32 `json:"guideSpeed"`
}

type factionDoc struct {
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	Colour             string         `json:"colour"`
	DefaultDisposition int            `json:"defaultDisposition"`
	ShipDesigns        []string       `json:"shipDesigns"`
	Relations          map[string]int `json:"relations"`
	ReputationImpacts  map[string]int `json:"reputationImpacts"`
}

type recipeDoc struct {
	Hull      string     `json:"hull"`
	Items     string     `json:"items"`
	Waypoints string     `json:"waypoints"`
	Money     int        `json:"money"`
	Density   float32    `json:"density"`
	Guard     *recipeDoc `json:"guard"`
}

type tradeDoc struct {
	Items string `json:"items"`
	Money int    `json:"money"`
}

type systemDoc struct {
	Name         string      `json:"name"`
	Hard         bool        `json:"hard"`
	ConstAllies  []recipeDoc `json:"constAllies"`
	ConstEnemies []recipeDoc `json:"constEnemies"`
	TradeConfig  tradeDoc    `json:"tradeConfig"`
}

// defaultColour is used when a faction document omits its colour.
const defaultColour = "#FFFFFF"

// qualify prefixes name with module unless it already names one.
func qualify(module, name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return module + ":" + name
}

func compileHulls(defs *state.Defs, module, document string, docs []hullDoc) error {
	for i, d := range docs {
		id := types.HullDesignID(qualify(module, d.ID))
		if _, dup := defs.Hulls[id]; dup {
			return &errs.Error{Kind: errs.ConfigError, Document: document, Pointer: fmt.Sprintf("/%d/id", i),
				Message: fmt.Sprintf("hull %q defined twice", id)}
		}
		defs.Hulls[id] = &types.HullConfig{
			ID:           id,
			Type:         types.HullType(d.Type),
			ApproxRadius: d.ApproxRadius,
			Size:         d.Size,
			Speed:        d.Speed,
		}
	}
	return nil
}

func compileItems(defs *state.Defs, module, document string, docs []itemDoc) error {
	for _, d := range docs {
		err := defs.Items.Register(types.ItemConfig{
			Code:       qualify(module, d.Code),
			Kind:       d.Kind,
			Price:      d.Price,
			GuideSpeed: d.GuideSpeed,
		})
		if err != nil {
			return errs.WrapConfig(document, err)
		}
	}
	return nil
}

// compileFactions turns one faction document into definitions and the
// relations it declares. Keys are visited in sorted order so relation
// seeding does not depend on map iteration.
func compileFactions(module, document string, doc map[string]factionDoc) ([]faction.Def, []faction.Relation, error) {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var defs []faction.Def
	var relations []faction.Relation
	for _, key := range keys {
		d := doc[key]
		id := types.FactionID(qualify(module, key))

		colour := d.Colour
		if colour == "" {
			colour = defaultColour
		}
		c, err := faction.ParseColour(colour)
		if err != nil {
			return nil, nil, &errs.Error{Kind: errs.SchemaViolation, Document: document, Pointer: "/" + key + "/colour", Message: err.Error()}
		}

		designs := make([]types.HullDesignID, 0, len(d.ShipDesigns))
		for _, h := range d.ShipDesigns {
			designs = append(designs, types.HullDesignID(qualify(module, h)))
		}
		impacts := make(map[string]int, len(d.ReputationImpacts))
		for name, delta := range d.ReputationImpacts {
			impacts[name] = delta
		}
		defs = append(defs, faction.Def{
			ID:                 id,
			Name:               d.Name,
			Description:        d.Description,
			Colour:             c,
			ShipDesigns:        designs,
			DefaultDisposition: d.DefaultDisposition,
			ReputationImpacts:  impacts,
		})

		others := make([]string, 0, len(d.Relations))
		for other := range d.Relations {
			others = append(others, other)
		}
		sort.Strings(others)
		for _, other := range others {
			relations = append(relations, faction.Relation{
				From:  id,
				To:    types.FactionID(qualify(module, other)),
				Value: d.Relations[other],
			})
		}
	}
	return defs, relations, nil
}

// compileRecipe resolves a recipe document against the hull and item catalogs.
func compileRecipe(defs *state.Defs, module, document, pointer string, d recipeDoc) (*types.ShipRecipe, error) {
	id := types.HullDesignID(qualify(module, d.Hull))
	hull, ok := defs.Hull(id)
	if !ok {
		return nil, &errs.Error{Kind: errs.MissingAsset, Document: document, Pointer: pointer + "/hull",
			Message: fmt.Sprintf("unknown hull %q", id)}
	}
	if err := defs.Items.Validate(d.Items); err != nil {
		return nil, &errs.Error{Kind: errs.ConfigError, Document: document, Pointer: pointer + "/items",
			Message: "bad items script", Err: err}
	}
	if _, err := populate.ParseWaypoints(d.Waypoints); err != nil {
		return nil, &errs.Error{Kind: errs.ConfigError, Document: document, Pointer: pointer + "/waypoints",
			Message: "bad waypoints", Err: err}
	}
	r := &types.ShipRecipe{
		Hull:      hull,
		Items:     d.Items,
		Waypoints: d.Waypoints,
		Money:     d.Money,
		Density:   d.Density,
	}
	if d.Guard != nil {
		g, err := compileRecipe(defs, module, document, pointer+"/guard", *d.Guard)
		if err != nil {
			return nil, err
		}
		r.Guard = g
	}
	return r, nil
}

func compileRecipes(defs *state.Defs, module, document, pointer string, docs []recipeDoc) ([]types.ShipRecipe, error) {
	out := make([]types.ShipRecipe, 0, len(docs))
	for i, d := range docs {
		r, err := compileRecipe(defs, module, document, fmt.Sprintf("%s/%d", pointer, i), d)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func compileSystems(defs *state.Defs, module, document string, docs []systemDoc) error {
	for i, d := range docs {
		pointer := fmt.Sprintf("/%d", i)
		allies, err := compileRecipes(defs, module, document, pointer+"/constAllies", d.ConstAllies)
		if err != nil {
			return err
		}
		enemies, err := compileRecipes(defs, module, document, pointer+"/constEnemies", d.ConstEnemies)
		if err != nil {
			return err
		}
		if err := defs.Items.Validate(d.TradeConfig.Items); err != nil {
			return &errs.Error{Kind: errs.ConfigError, Document: document, Pointer: pointer + "/tradeConfig/items",
				Message: "bad items script", Err: err}
		}
		defs.Systems = append(defs.Systems, &types.SystemConfig{
			Name:         d.Name,
			Hard:         d.Hard,
			ConstAllies:  allies,
			ConstEnemies: enemies,
			Trade:        types.TradeConfig{Items: d.TradeConfig.Items, Money: d.TradeConfig.Money},
		})
	}
	return nil
}
