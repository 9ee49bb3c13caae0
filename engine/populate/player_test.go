package populate

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Du4lity5151/DestinationSol/engine/errs"
	"github.com/Du4lity5151/DestinationSol/engine/pilot"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

type fixedBeacon struct{ pos mgl32.Vec2 }

func (b fixedBeacon) BeaconPosition() (mgl32.Vec2, bool) { return b.pos, true }

func TestPlayerSpawnPos(t *testing.T) {
	traders := &types.SystemConfig{ConstAllies: []types.ShipRecipe{{Hull: busHull, Density: 1}}}
	tests := []struct {
		place string
		want  func(fx *fixture) mgl32.Vec2
	}{
		{SpawnNearStation, func(fx *fixture) mgl32.Vec2 {
			m := fx.planner.MainStation()
			return m.Pos.Add(mgl32.Vec2{0, stationHull.Size / 2})
		}},
		{SpawnPlanet, func(fx *fixture) mgl32.Vec2 {
			p := fx.w.Galaxy.Systems[0].Planets[0]
			return world.PlanetPosition(p).Add(mgl32.Vec2{p.FullHeight, 0})
		}},
		{SpawnMaze, func(fx *fixture) mgl32.Vec2 {
			return mgl32.Vec2{1030, 800}
		}},
		{SpawnTrader, func(fx *fixture) mgl32.Vec2 {
			for _, s := range fx.w.AllShips() {
				if s.Hull.ID == types.BusHull {
					return s.Pos.Add(mgl32.Vec2{busHull.ApproxRadius * 2, 0})
				}
			}
			t.Fatal("no bus spawned")
			return mgl32.Vec2{}
		}},
	}
	for _, tt := range tests {
		name := tt.place
		if name == "" {
			name = "station"
		}
		t.Run(name, func(t *testing.T) {
			fx := newFixture(t, handGalaxy(traders, &types.SystemConfig{}), Config{SpawnPlace: tt.place})
			fx.fill(t)
			got, err := fx.planner.PlayerSpawnPos()
			if err != nil {
				t.Fatalf("PlayerSpawnPos: %v", err)
			}
			if want := tt.want(fx); !near(got, want) {
				t.Errorf("spawn = %v, want %v", got, want)
			}
		})
	}
}

func TestPlayerSpawnPos_UnknownPlace(t *testing.T) {
	fx := newFixture(t, handGalaxy(&types.SystemConfig{}, &types.SystemConfig{}), Config{SpawnPlace: "moon"})
	fx.fill(t)
	if _, err := fx.planner.PlayerSpawnPos(); !errs.Is(err, errs.ConfigError) {
		t.Errorf("err = %v, want ConfigError", err)
	}
}

func TestPlayerSpawnPos_TraderMissingKeepsDefault(t *testing.T) {
	fx := newFixture(t, handGalaxy(&types.SystemConfig{}, &types.SystemConfig{}), Config{SpawnPlace: SpawnTrader})
	fx.fill(t)
	got, err := fx.planner.PlayerSpawnPos()
	if err != nil {
		t.Fatalf("PlayerSpawnPos: %v", err)
	}
	if want := (mgl32.Vec2{world.SunRadius * 2, 0}); got != want {
		t.Errorf("spawn = %v, want %v", got, want)
	}
}

func TestCreatePlayer_UIControlled(t *testing.T) {
	player := &types.ShipRecipe{
		Hull:      playerHull,
		Items:     "core:blaster core:fuel",
		Money:     75,
		Waypoints: "10,20_1,0,0 -5,3",
	}
	fx := newFixture(t, handGalaxy(&types.SystemConfig{}, &types.SystemConfig{}), Config{Player: player})
	fx.fill(t)

	h, err := fx.planner.CreatePlayer(false, &pilot.ManualControls{}, nil)
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	ship, err := h.Ship()
	if err != nil {
		t.Fatalf("Ship: %v", err)
	}
	if ship.Role != world.RolePlayer || !ship.Pilot.IsPlayer() {
		t.Error("player ship should be flown by the UI pilot")
	}
	if fx.w.Hero() != ship {
		t.Error("player ship should be the world's hero")
	}
	if h.Money() != 75 || !ship.CanShoot() || len(ship.Items) != 1 {
		t.Errorf("money=%d guns=%d items=%d", h.Money(), len(ship.Guns), len(ship.Items))
	}
	if h.Faction().ID() != types.PlayerFaction {
		t.Errorf("faction = %s", h.Faction().ID())
	}
	wps := h.Waypoints()
	if len(wps) != 2 {
		t.Fatalf("waypoints = %d, want 2", len(wps))
	}
	if wps[0].Position != (mgl32.Vec2{10, 20}) || wps[0].Color != [3]float32{1, 0, 0} {
		t.Errorf("waypoint 0 = %+v", wps[0])
	}
	if wps[1].Color != [3]float32{1, 1, 1} {
		t.Errorf("waypoint 1 colour = %v, want white", wps[1].Color)
	}
	last := fx.rec.spawns[len(fx.rec.spawns)-1]
	if last.Role != world.RolePlayer || last.Faction != types.PlayerFaction {
		t.Errorf("last spawn = %+v", last)
	}
}

func TestCreatePlayer_MouseControlFollowsBeacon(t *testing.T) {
	fx := newFixture(t, handGalaxy(&types.SystemConfig{}, &types.SystemConfig{}), Config{})
	fx.fill(t)

	h, err := fx.planner.CreatePlayer(true, nil, fixedBeacon{pos: mgl32.Vec2{5, 5}})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	ai, ok := h.Pilot().(*pilot.AI)
	if !ok {
		t.Fatalf("pilot = %T, want *pilot.AI", h.Pilot())
	}
	if _, ok := ai.Destination().(*pilot.BeaconSeeker); !ok {
		t.Errorf("destination = %T, want *pilot.BeaconSeeker", ai.Destination())
	}
	if ai.MapHint() != "you" || ai.Faction().ID() != types.PlayerFaction {
		t.Errorf("hint=%q faction=%s", ai.MapHint(), ai.Faction().ID())
	}
}

func TestParseWaypoints(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"1,2", 1, false},
		{"1,2_0.5,0.5,0.5 3,4", 2, false},
		{"1", 0, true},
		{"1,x", 0, true},
		{"1,2_1,1", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseWaypoints(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWaypoints(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if len(got) != tt.want {
			t.Errorf("ParseWaypoints(%q) = %d waypoints, want %d", tt.in, len(got), tt.want)
		}
	}
}
