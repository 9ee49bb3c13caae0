package resolve

import (
	"errors"
	"testing"

	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

func testRegistry(t *testing.T) *faction.Registry {
	t.Helper()
	defs := []faction.Def{
		{ID: types.PlayerFaction, Name: "Player"},
		{ID: types.GenericAllyFaction, Name: "Laani"},
		{ID: types.GenericEnemyFaction, Name: "Ehar"},
		{ID: "core:pirates", Name: "Free Pirates"},
		{ID: "extra:pirates", Name: "Void Raiders"},
	}
	r, err := faction.NewRegistry(defs, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestFaction(t *testing.T) {
	r := testRegistry(t)
	tests := []struct {
		name string
		want types.FactionID
	}{
		{"engine:player", types.PlayerFaction},
		{"laani", types.GenericAllyFaction},
		{"EHAR", types.GenericEnemyFaction},
		{"free pirates", "core:pirates"},
		{"Void Raiders", "extra:pirates"},
		{"extra:pirates", "extra:pirates"},
	}
	for _, tt := range tests {
		f, err := Faction(r, tt.name)
		if err != nil {
			t.Errorf("Faction(%q) error: %v", tt.name, err)
			continue
		}
		if f.ID() != tt.want {
			t.Errorf("Faction(%q) = %s, want %s", tt.name, f.ID(), tt.want)
		}
	}
}

func TestFaction_Ambiguous(t *testing.T) {
	r := testRegistry(t)
	_, err := Faction(r, "pirates")
	var amb *AmbiguityError
	if !errors.As(err, &amb) {
		t.Fatalf("Faction(pirates) err = %v, want AmbiguityError", err)
	}
	if len(amb.Candidates) != 2 {
		t.Errorf("candidates = %v, want 2", amb.Candidates)
	}
}

func TestFaction_NotFound(t *testing.T) {
	r := testRegistry(t)
	_, err := Faction(r, "nobody")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nf.Error() != `no faction named "nobody"` {
		t.Errorf("message = %q", nf.Error())
	}
}

func TestShip(t *testing.T) {
	w := world.New(nil, 15)
	station := w.AddShip(&world.Ship{Hull: &types.HullConfig{ID: "core:station"}})
	w.AddShip(&world.Ship{Hull: &types.HullConfig{ID: "core:pirate"}})
	w.AddShip(&world.Ship{Hull: &types.HullConfig{ID: "core:pirate"}})
	me := w.AddShip(&world.Ship{Hull: &types.HullConfig{ID: "core:imperialSmall"}})
	w.SetHero(me)

	tests := []struct {
		name string
		want *world.Ship
	}{
		{"1", station},
		{"station", station},
		{"core:station", station},
		{"hero", me},
		{"Me", me},
	}
	for _, tt := range tests {
		got, err := Ship(w, tt.name)
		if err != nil || got != tt.want {
			t.Errorf("Ship(%q) = %v, %v", tt.name, got, err)
		}
	}

	var amb *AmbiguityError
	if _, err := Ship(w, "pirate"); !errors.As(err, &amb) {
		t.Errorf("Ship(pirate) err = %v, want AmbiguityError", err)
	}
	var nf *NotFoundError
	if _, err := Ship(w, "99"); !errors.As(err, &nf) {
		t.Errorf("Ship(99) err = %v, want NotFoundError", err)
	}
}

func TestSystem(t *testing.T) {
	g := &types.Galaxy{Systems: []*types.SolarSystem{{Name: "Alpha"}, {Name: "Beta"}}}
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"1", 0, false},
		{"2", 1, false},
		{"beta", 1, false},
		{"3", -1, true},
		{"0", -1, true},
		{"Gamma", -1, true},
	}
	for _, tt := range tests {
		got, err := System(g, tt.name)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("System(%q) = %d, %v", tt.name, got, err)
		}
	}
}
