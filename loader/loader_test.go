package loader

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/Du4lity5151/DestinationSol/engine/errs"
	"github.com/Du4lity5151/DestinationSol/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// minimalFS returns a loadable two-module asset tree. Callers override or
// delete entries to exercise failures.
func minimalFS() fstest.MapFS {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }
	return fstest.MapFS{
		"engine/factions/engine.json": file(`{
			"player": {"name": "Player"},
			"laani": {"name": "Laani", "colour": "#00FF00", "defaultDisposition": 50, "shipDesigns": ["core:station"]},
			"ehar": {"name": "Ehar", "colour": "#FF000080", "defaultDisposition": -50, "shipDesigns": ["core:pirate"],
				"relations": {"laani": -70}}
		}`),
		"core/hulls.json": file(`[
			{"id": "station", "type": "station", "approxRadius": 4, "size": 8},
			{"id": "pirate", "type": "std", "approxRadius": 1, "size": 2, "speed": 4}
		]`),
		"core/items.json": file(`[
			{"code": "blaster", "kind": "gun", "price": 100},
			{"code": "missile", "kind": "gun", "price": 300, "guideSpeed": 90}
		]`),
		"core/startingStation.json": file(`{"hull": "station", "items": "core:blaster", "money": 1000,
			"guard": {"hull": "core:pirate", "density": 1}}`),
		"core/systems.json": file(`[{"name": "Sol",
			"constEnemies": [{"hull": "pirate", "items": "core:blaster|core:missile:0.5", "density": 2}],
			"tradeConfig": {"items": "core:blaster", "money": 100}}]`),
	}
}

func TestLoad_Minimal(t *testing.T) {
	defs, err := Load(minimalFS(), "core", quietLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if defs.Module != "core" {
		t.Errorf("Module = %q", defs.Module)
	}
	if len(defs.Factions) != 3 {
		t.Fatalf("factions = %d, want 3", len(defs.Factions))
	}
	// Sorted keys within a document.
	if defs.Factions[0].ID != "engine:ehar" || defs.Factions[2].ID != "engine:player" {
		t.Errorf("faction order = %v, %v, %v", defs.Factions[0].ID, defs.Factions[1].ID, defs.Factions[2].ID)
	}
	ehar := defs.Factions[0]
	if ehar.Colour.Alpha < 0.5 || ehar.Colour.Alpha > 0.51 {
		t.Errorf("ehar alpha = %v, want ~0.5", ehar.Colour.Alpha)
	}
	if len(defs.Relations) != 1 || defs.Relations[0].To != "engine:laani" || defs.Relations[0].Value != -70 {
		t.Errorf("relations = %+v", defs.Relations)
	}

	if h, ok := defs.Hull("core:pirate"); !ok || h.Speed != 4 || h.Type != types.HullStd {
		t.Errorf("hull core:pirate = %+v, %v", h, ok)
	}
	if it, ok := defs.Items.Get("core:missile"); !ok || it.GuideSpeed != 90 {
		t.Errorf("item core:missile = %+v, %v", it, ok)
	}

	if defs.MainStation.Hull.ID != "core:station" || defs.MainStation.Guard == nil || defs.MainStation.Guard.Hull.ID != "core:pirate" {
		t.Errorf("main station = %+v", defs.MainStation)
	}
	// No playerShip.json: the player flies the main-station hull, empty.
	if defs.Player.Hull != defs.MainStation.Hull || defs.Player.Items != "" {
		t.Errorf("player fallback = %+v", defs.Player)
	}
	if len(defs.Systems) != 1 || defs.Systems[0].ConstEnemies[0].Density != 2 {
		t.Errorf("systems = %+v", defs.Systems)
	}
}

func TestLoad_IgnoresUnknownFactionKeys(t *testing.T) {
	fsys := minimalFS()
	fsys["engine/factions/engine.json"] = &fstest.MapFile{Data: []byte(`{
		"player": {"name": "Player", "icon": "engine:playerIcon"},
		"laani": {"name": "Laani", "defaultDisposition": 50, "shipDesigns": ["core:station"], "lore": {"founded": 2310}},
		"ehar": {"name": "Ehar", "defaultDisposition": -50, "shipDesigns": ["core:pirate"]}
	}`)}
	defs, err := Load(fsys, "core", quietLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(defs.Factions) != 3 || defs.Factions[2].ID != "engine:player" || defs.Factions[2].Name != "Player" {
		t.Errorf("factions = %+v", defs.Factions)
	}
}

func TestLoad_PlayerShip(t *testing.T) {
	fsys := minimalFS()
	fsys["core/playerShip.json"] = &fstest.MapFile{Data: []byte(`{"hull": "pirate", "items": "core:blaster", "money": 50, "waypoints": "1,2 3,4_1,0,0"}`)}
	defs, err := Load(fsys, "core", quietLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if defs.Player.Hull.ID != "core:pirate" || defs.Player.Money != 50 || defs.Player.Waypoints == "" {
		t.Errorf("player = %+v", defs.Player)
	}
}

func TestLoad_Scripts(t *testing.T) {
	fsys := minimalFS()
	fsys["core/scripts/rep.lua"] = &fstest.MapFile{Data: []byte(`
		ReputationEvent "Smuggled" { impact = -5 }
		ReputationImpact "engine:laani" { Smuggled = -10, BoughtItem = 2 }
	`)}
	defs, err := Load(fsys, "core", quietLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	k, ok := defs.Events.Lookup("Smuggled")
	if !ok || k.DefaultImpact != -5 {
		t.Errorf("Smuggled = %+v, %v", k, ok)
	}
	var overrides map[string]int
	for _, d := range defs.Factions {
		if d.ID == types.GenericAllyFaction {
			overrides = d.ReputationImpacts
		}
	}
	if overrides["Smuggled"] != -10 || overrides["BoughtItem"] != 2 {
		t.Errorf("laani overrides = %v", overrides)
	}
}

func TestLoad_ModuleOrder(t *testing.T) {
	got := sortedModules([]string{"zeta", "core", "engine", "alpha"})
	want := []string{"engine", "alpha", "core", "zeta"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("sortedModules = %v, want %v", got, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }
	tests := []struct {
		name    string
		module  string
		mutate  func(fstest.MapFS)
		kind    errs.Kind
		pointer string
	}{
		{
			name:   "unknown module",
			module: "nope",
			kind:   errs.MissingAsset,
		},
		{
			name:   "no starting station",
			mutate: func(f fstest.MapFS) { delete(f, "core/startingStation.json") },
			kind:   errs.MissingAsset,
		},
		{
			name:    "bad colour",
			mutate:  func(f fstest.MapFS) { f["core/factions/x.json"] = file(`{"x": {"name": "X", "colour": "green"}}`) },
			kind:    errs.SchemaViolation,
			pointer: "/x/colour",
		},
		{
			name:    "bad hull type",
			mutate:  func(f fstest.MapFS) { f["core/hulls.json"] = file(`[{"id": "a", "type": "huge", "approxRadius": 1, "size": 2}]`) },
			kind:    errs.SchemaViolation,
			pointer: "/0/type",
		},
		{
			name:   "malformed json",
			mutate: func(f fstest.MapFS) { f["core/items.json"] = file(`[{`) },
			kind:   errs.SchemaViolation,
		},
		{
			name:    "unknown hull in recipe",
			mutate:  func(f fstest.MapFS) { f["core/startingStation.json"] = file(`{"hull": "castle"}`) },
			kind:    errs.MissingAsset,
			pointer: "/hull",
		},
		{
			name:    "unknown item in recipe",
			mutate:  func(f fstest.MapFS) { f["core/startingStation.json"] = file(`{"hull": "station", "items": "core:laser"}`) },
			kind:    errs.ConfigError,
			pointer: "/items",
		},
		{
			name: "unknown item in trade table",
			mutate: func(f fstest.MapFS) {
				f["core/systems.json"] = file(`[{"name": "Sol", "tradeConfig": {"items": "core:laser"}}]`)
			},
			kind:    errs.ConfigError,
			pointer: "/0/tradeConfig/items",
		},
		{
			name: "missing well-known faction",
			mutate: func(f fstest.MapFS) {
				f["engine/factions/engine.json"] = file(`{"player": {"name": "Player"}, "laani": {"name": "Laani"}}`)
			},
			kind: errs.ConfigError,
		},
		{
			name: "relation to unknown faction",
			mutate: func(f fstest.MapFS) {
				f["core/factions/x.json"] = file(`{"x": {"name": "X", "relations": {"ghosts": 10}}}`)
			},
			kind: errs.MissingAsset,
		},
		{
			name:   "no systems",
			mutate: func(f fstest.MapFS) { delete(f, "core/systems.json") },
			kind:   errs.MissingAsset,
		},
		{
			name:   "duplicate hull",
			mutate: func(f fstest.MapFS) { f["core/hulls.json"] = file(`[{"id": "station", "type": "station", "approxRadius": 4, "size": 8}, {"id": "station", "type": "std", "approxRadius": 1, "size": 2}]`) },
			kind:   errs.ConfigError,
		},
		{
			name:   "script syntax",
			mutate: func(f fstest.MapFS) { f["core/scripts/bad.lua"] = file(`ReputationEvent "X" {`) },
			kind:   errs.ConfigError,
		},
		{
			name:   "script sandbox",
			mutate: func(f fstest.MapFS) { f["core/scripts/io.lua"] = file(`dofile("/etc/passwd")`) },
			kind:   errs.ConfigError,
		},
		{
			name:   "script impact for unknown faction",
			mutate: func(f fstest.MapFS) { f["core/scripts/x.lua"] = file(`ReputationImpact "ghosts" { BoughtItem = 1 }`) },
			kind:   errs.ConfigError,
		},
		{
			name:   "script impact for unknown event",
			mutate: func(f fstest.MapFS) { f["core/scripts/x.lua"] = file(`ReputationImpact "engine:laani" { Waved = 1 }`) },
			kind:   errs.ConfigError,
		},
		{
			name:   "script duplicate event",
			mutate: func(f fstest.MapFS) { f["core/scripts/x.lua"] = file(`ReputationEvent "BoughtItem" { impact = 1 }`) },
			kind:   errs.ConfigError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := minimalFS()
			if tt.mutate != nil {
				tt.mutate(fsys)
			}
			module := tt.module
			if module == "" {
				module = "core"
			}
			_, err := Load(fsys, module, quietLogger())
			if err == nil {
				t.Fatal("Load should fail")
			}
			if got := errs.KindOf(err); got != tt.kind {
				t.Errorf("kind = %q, want %q (err: %v)", got, tt.kind, err)
			}
			if tt.pointer != "" {
				var e *errs.Error
				if !errors.As(err, &e) || e.Pointer != tt.pointer {
					t.Errorf("pointer = %v, want %q (err: %v)", e, tt.pointer, err)
				}
			}
		})
	}
}

func TestLoad_ShippedAssets(t *testing.T) {
	defs, err := Load(os.DirFS("../assets"), "core", quietLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(defs.Systems) < 2 {
		t.Errorf("systems = %d, want at least 2", len(defs.Systems))
	}
	if _, ok := defs.Events.Lookup("Smuggled"); !ok {
		t.Error("module script event not registered")
	}
	if defs.Player.Hull.ID != "core:imperialSmall" {
		t.Errorf("player hull = %q", defs.Player.Hull.ID)
	}
}
