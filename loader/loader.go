// Package loader reads asset modules into the immutable definitions a game
// boots from. Module scripts run in a sandboxed Lua VM that is discarded
// after loading.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/Du4lity5151/DestinationSol/engine/errs"
	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/state"
	"github.com/Du4lity5151/DestinationSol/types"
)

// EngineModule is loaded before every other module.
const EngineModule = "engine"

// collector accumulates script declarations during execution.
type collector struct {
	module  string
	events  []rawEvent
	impacts []rawImpact
}

// Load reads every module under fsys, then the main-station and player
// recipes of the selected module, validates cross references, and returns
// the definitions.
func Load(fsys fs.FS, module string, logger *slog.Logger) (*state.Defs, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "loader")

	// 1. Discover modules.
	modules, err := discoverModules(fsys)
	if err != nil {
		return nil, err
	}
	if !contains(modules, module) {
		return nil, errs.MissingAssetf("module %q not found (have %s)", module, strings.Join(modules, ", "))
	}

	sc, err := compileSchemas()
	if err != nil {
		return nil, fmt.Errorf("compiling schemas: %w", err)
	}
	defs := state.NewDefs()
	defs.Module = module

	// 2. Catalogs first: later documents resolve against them.
	for _, m := range modules {
		var hulls []hullDoc
		doc := path.Join(m, "hulls.json")
		if ok, err := sc.read(fsys, doc, "hulls", &hulls); err != nil {
			return nil, err
		} else if ok {
			if err := compileHulls(defs, m, doc, hulls); err != nil {
				return nil, err
			}
		}

		var itemDocs []itemDoc
		doc = path.Join(m, "items.json")
		if ok, err := sc.read(fsys, doc, "items", &itemDocs); err != nil {
			return nil, err
		} else if ok {
			if err := compileItems(defs, m, doc, itemDocs); err != nil {
				return nil, err
			}
		}
	}

	// 3. Factions and systems.
	for _, m := range modules {
		files, err := listFiles(fsys, path.Join(m, "factions"), ".json")
		if err != nil {
			return nil, err
		}
		for _, doc := range files {
			var fdoc map[string]factionDoc
			if _, err := sc.read(fsys, doc, "factions", &fdoc); err != nil {
				return nil, err
			}
			fdefs, rels, err := compileFactions(m, doc, fdoc)
			if err != nil {
				return nil, err
			}
			defs.Factions = append(defs.Factions, fdefs...)
			defs.Relations = append(defs.Relations, rels...)
		}

		var systems []systemDoc
		doc := path.Join(m, "systems.json")
		if ok, err := sc.read(fsys, doc, "systems", &systems); err != nil {
			return nil, err
		} else if ok {
			if err := compileSystems(defs, m, doc, systems); err != nil {
				return nil, err
			}
		}
	}

	// 4. Module scripts.
	coll, err := runScripts(fsys, modules)
	if err != nil {
		return nil, err
	}
	if err := applyScripts(defs, coll); err != nil {
		return nil, err
	}

	// 5. Recipes of the selected module.
	if err := loadRecipes(defs, sc, fsys, module); err != nil {
		return nil, err
	}

	// 6. Cross references.
	if err := validate(defs, logger); err != nil {
		return nil, err
	}

	logger.Info("assets loaded",
		"modules", len(modules),
		"factions", len(defs.Factions),
		"hulls", len(defs.Hulls),
		"items", len(defs.Items.Codes()),
		"systems", len(defs.Systems),
		"events", len(defs.Events.Kinds()),
	)
	return defs, nil
}

// discoverModules lists top-level directories: the engine module first,
// the rest alphabetical.
func discoverModules(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading asset root: %w", err)
	}
	var modules []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			modules = append(modules, e.Name())
		}
	}
	if len(modules) == 0 {
		return nil, errs.MissingAssetf("no asset modules found")
	}
	return sortedModules(modules), nil
}

// sortedModules returns modules with the engine module first, then the
// rest alphabetically.
func sortedModules(modules []string) []string {
	var engine bool
	var rest []string
	for _, m := range modules {
		if m == EngineModule {
			engine = true
		} else {
			rest = append(rest, m)
		}
	}
	sort.Strings(rest)
	if engine {
		return append([]string{EngineModule}, rest...)
	}
	return rest
}

// listFiles returns the sorted files in dir with the given suffix. A
// missing dir yields none.
func listFiles(fsys fs.FS, dir, suffix string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			out = append(out, path.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// loadRecipes reads the main-station recipe, which is required, and the
// player recipe, which falls back to the main-station hull.
func loadRecipes(defs *state.Defs, sc *schemas, fsys fs.FS, module string) error {
	var main recipeDoc
	doc := path.Join(module, "startingStation.json")
	ok, err := sc.read(fsys, doc, "recipe", &main)
	if err != nil {
		return err
	}
	if !ok {
		return errs.MissingAssetf("%s: starting station recipe not found", doc)
	}
	if defs.MainStation, err = compileRecipe(defs, module, doc, "", main); err != nil {
		return err
	}

	var player recipeDoc
	doc = path.Join(module, "playerShip.json")
	ok, err = sc.read(fsys, doc, "recipe", &player)
	if err != nil {
		return err
	}
	if !ok {
		defs.Player = &types.ShipRecipe{Hull: defs.MainStation.Hull}
		return nil
	}
	defs.Player, err = compileRecipe(defs, module, doc, "", player)
	return err
}

// runScripts executes every module's scripts in module order in one
// sandboxed VM.
func runScripts(fsys fs.FS, modules []string) (*collector, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, m := range modules {
		files, err := listFiles(fsys, path.Join(m, "scripts"), ".lua")
		if err != nil {
			return nil, err
		}
		coll.module = m
		for _, f := range files {
			data, err := fs.ReadFile(fsys, f)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", f, err)
			}
			fn, err := L.Load(bytes.NewReader(data), f)
			if err != nil {
				return nil, errs.WrapConfig(f, err)
			}
			L.Push(fn)
			if err := L.PCall(0, lua.MultRet, nil); err != nil {
				return nil, errs.WrapConfig(f, err)
			}
		}
	}
	return coll, nil
}

// applyScripts registers declared event kinds, then merges per-faction
// impact overrides into the faction definitions.
func applyScripts(defs *state.Defs, coll *collector) error {
	for _, e := range coll.events {
		if err := defs.Events.Register(faction.EventKind{Name: e.name, DefaultImpact: e.impact}); err != nil {
			return fmt.Errorf("module %s: %w", e.module, err)
		}
	}
	byID := make(map[types.FactionID]int, len(defs.Factions))
	for i, d := range defs.Factions {
		byID[d.ID] = i
	}
	for _, imp := range coll.impacts {
		i, ok := byID[imp.faction]
		if !ok {
			return errs.ConfigErrorf("module %s: reputation impact for unknown faction %q", imp.module, imp.faction)
		}
		d := &defs.Factions[i]
		if d.ReputationImpacts == nil {
			d.ReputationImpacts = map[string]int{}
		}
		for name, delta := range imp.deltas {
			if _, ok := defs.Events.Lookup(name); !ok {
				return errs.ConfigErrorf("module %s: faction %q overrides unknown reputation event %q", imp.module, imp.faction, name)
			}
			d.ReputationImpacts[name] = delta
		}
	}
	return nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM or break determinism.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// decodeInto re-decodes a validated document into its typed form.
func decodeInto(document string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return errs.WrapConfig(document, err)
	}
	return nil
}
