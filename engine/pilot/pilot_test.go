package pilot

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/geom"
	"github.com/Du4lity5151/DestinationSol/engine/rng"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

var (
	stdHull = &types.HullConfig{ID: "core:imperialSmall", Type: types.HullStd, ApproxRadius: 1}
	bigHull = &types.HullConfig{ID: "core:imperialBig", Type: types.HullBig, ApproxRadius: 3}
	gun     = types.ItemConfig{Code: "core:fixedBlaster", Kind: "gun"}
)

func TestUIControlled_ProxiesControls(t *testing.T) {
	player := faction.New(faction.Def{ID: types.PlayerFaction})
	c := &ManualControls{U: true, R: true, S2: true}
	p := NewUIControlled(player, c)

	if !p.Up() || p.Left() || !p.Right() || p.Shoot() || !p.Shoot2() || p.Ability() {
		t.Error("intents do not mirror the controls")
	}
	c.U, c.A = false, true
	if p.Up() || !p.Ability() {
		t.Error("intents are not read live")
	}
	if !p.IsPlayer() || !p.CollectsItems() || p.ShootsAtObstacles() {
		t.Error("player pilot flags wrong")
	}
	if p.MapHint() != "You" || p.DetectionDistance() != AutoShootDistance || p.Faction() != player {
		t.Errorf("hint=%q detection=%v", p.MapHint(), p.DetectionDistance())
	}
}

func TestAI_StationKeeperIdle(t *testing.T) {
	w := world.New(nil, 15)
	f := faction.New(faction.Def{ID: "core:traders"})
	p := NewAI(StationKeeper{}, true, f, true, "something", AIDetectionDistance)
	ship := w.AddShip(&world.Ship{Hull: stdHull, Pilot: p})

	p.Update(w, ship, nil)
	if p.Up() || p.Left() || p.Right() || p.Shoot() {
		t.Error("station keeper should produce no intents")
	}
	if p.IsPlayer() || p.MapHint() != "something" || p.DetectionDistance() != AIDetectionDistance {
		t.Error("AI pilot attributes wrong")
	}
}

func TestAI_EngagesAndShootsWhenArmed(t *testing.T) {
	w := world.New(nil, 15)
	us := faction.New(faction.Def{ID: "core:us"})
	them := faction.New(faction.Def{ID: "core:them", DefaultDisposition: -100})
	p := NewAI(NewStillGuard(mgl32.Vec2{}, stdHull), false, us, false, "", AIDetectionDistance)
	ship := w.AddShip(&world.Ship{Hull: stdHull, Pilot: p, Guns: []types.ItemConfig{gun}})
	enemy := w.AddShip(&world.Ship{Hull: stdHull, Pilot: NewAI(StationKeeper{}, false, them, false, "", 0), Pos: mgl32.Vec2{5, 0}})

	p.Update(w, ship, enemy)
	if !p.Shoot() || !p.Up() {
		t.Errorf("armed guard facing enemy: shoot=%v up=%v", p.Shoot(), p.Up())
	}

	// A ship in the line of fire blocks the shot.
	w.AddShip(&world.Ship{Hull: stdHull, Pos: mgl32.Vec2{2.5, 0}})
	p.Update(w, ship, enemy)
	if p.Shoot() {
		t.Error("shot fired through an obstacle")
	}
}

func TestAI_TurnsTowardDestination(t *testing.T) {
	w := world.New(nil, 15)
	f := faction.New(faction.Def{ID: "core:us"})
	p := NewAI(NewStillGuard(mgl32.Vec2{0, 10}, stdHull), false, f, false, "", AIDetectionDistance)
	ship := w.AddShip(&world.Ship{Hull: stdHull, Pilot: p})

	p.Update(w, ship, nil)
	if !p.Right() || p.Left() || p.Up() {
		t.Errorf("target at +90: right=%v left=%v up=%v", p.Right(), p.Left(), p.Up())
	}

	ship.Angle = 90
	p.Update(w, ship, nil)
	if p.Right() || p.Left() || !p.Up() {
		t.Errorf("facing target: right=%v left=%v up=%v", p.Right(), p.Left(), p.Up())
	}
}

func TestAI_StopsNearDestination(t *testing.T) {
	w := world.New(nil, 15)
	f := faction.New(faction.Def{ID: "core:us"})
	p := NewAI(NewStillGuard(mgl32.Vec2{1, 0}, stdHull), false, f, false, "", AIDetectionDistance)
	ship := w.AddShip(&world.Ship{Hull: stdHull, Pilot: p})

	p.Update(w, ship, nil)
	if p.Up() || p.Left() || p.Right() {
		t.Error("ship at its destination should idle")
	}
}

func TestAI_UpdateFarMovesTowardDestination(t *testing.T) {
	w := world.New(nil, 15)
	w.TimeStep = 1
	f := faction.New(faction.Def{ID: "core:us"})
	p := NewAI(NewStillGuard(mgl32.Vec2{10, 0}, stdHull), false, f, false, "", AIDetectionDistance)
	ship := w.AddShip(&world.Ship{Hull: stdHull, Pilot: p, Far: true})

	p.UpdateFar(w, ship)
	if got := ship.Pos.X(); got != DefaultAISpeed {
		t.Errorf("far ship x = %v, want %v", got, DefaultAISpeed)
	}
	for i := 0; i < 5; i++ {
		p.UpdateFar(w, ship)
	}
	if ship.Pos != (mgl32.Vec2{10, 0}) {
		t.Errorf("far ship should settle on destination, at %v", ship.Pos)
	}
}

func TestGuardian_OrbitsTarget(t *testing.T) {
	target := &world.Ship{Hull: bigHull, Pos: mgl32.Vec2{100, 100}, Angle: 90}
	g := NewGuardian(target, stdHull, 90)

	dest, ok := g.Destination()
	if !ok {
		t.Fatal("guardian has no destination")
	}
	wantDist := bigHull.ApproxRadius + GuardDistance + stdHull.ApproxRadius
	if d := geom.Dist(dest, target.Pos); d < wantDist-0.01 || d > wantDist+0.01 {
		t.Errorf("guard distance = %v, want %v", d, wantDist)
	}
	if a := geom.AngleTo(target.Pos, dest); geom.AngleDiff(a, 180) > 0.01 {
		t.Errorf("guard angle = %v, want 180", a)
	}

	target.Pos = mgl32.Vec2{0, 0}
	g.Tick(nil, mgl32.Vec2{}, MaxIdleDistance, stdHull, nil)
	if dest2, _ := g.Destination(); geom.Dist(dest2, target.Pos) > wantDist+0.01 {
		t.Error("guardian did not follow its target")
	}

	target.Dead = true
	if _, ok := g.Destination(); ok {
		t.Error("guardian of a dead target should have no destination")
	}
	if g.DesiredSpeed() != BigAISpeed || g.ShouldAvoidBigObstacles() {
		t.Error("guardian speed/avoidance wrong")
	}
}

func TestExplorer_PicksPlanetWaypoints(t *testing.T) {
	sys := &types.SolarSystem{Position: mgl32.Vec2{0, 0}}
	sys.Planets = []*types.Planet{
		{SystemPos: sys.Position, Distance: 100, Angle: 0, FullHeight: 10},
		{SystemPos: sys.Position, Distance: 200, Angle: 90, FullHeight: 12},
	}
	start := mgl32.Vec2{50, 50}
	e := NewExplorer(start, false, stdHull, sys, rng.New(5))

	e.Tick(nil, mgl32.Vec2{-500, -500}, MaxIdleDistance, stdHull, nil)
	if d, _ := e.Destination(); d != start {
		t.Fatal("explorer changed destination before arriving")
	}

	e.Tick(nil, start, MaxIdleDistance, stdHull, nil)
	dest, _ := e.Destination()
	near := false
	for _, p := range sys.Planets {
		d := geom.Dist(dest, world.PlanetPosition(p))
		if d >= p.FullHeight && d <= 2*p.FullHeight+stdHull.ApproxRadius {
			near = true
		}
	}
	if !near {
		t.Errorf("explorer waypoint %v is not near a planet", dest)
	}
}

func TestManeuverPolicies(t *testing.T) {
	tests := []struct {
		name       string
		dest       DestProvider
		nearGround bool
		want       Maneuver
	}{
		{"station", StationKeeper{}, false, ManeuverDefault},
		{"still guard", NewStillGuard(mgl32.Vec2{}, stdHull), false, ManeuverEngage},
		{"aggressive explorer", NewExplorer(mgl32.Vec2{}, true, stdHull, nil, rng.New(1)), true, ManeuverEngage},
		{"peaceful explorer near ground", NewExplorer(mgl32.Vec2{}, false, stdHull, nil, rng.New(1)), true, ManeuverIgnore},
		{"peaceful explorer in space", NewExplorer(mgl32.Vec2{}, false, stdHull, nil, rng.New(1)), false, ManeuverDefault},
		{"beacon", NewBeaconSeeker(nil, stdHull), false, ManeuverDefault},
	}
	for _, tt := range tests {
		if got := tt.dest.ManeuverPolicy(true, nil, tt.nearGround); got != tt.want {
			t.Errorf("%s: ManeuverPolicy = %v, want %v", tt.name, got, tt.want)
		}
	}
}

type fixedBeacon struct {
	pos mgl32.Vec2
	set bool
}

func (b *fixedBeacon) BeaconPosition() (mgl32.Vec2, bool) { return b.pos, b.set }

func TestBeaconSeeker(t *testing.T) {
	b := &fixedBeacon{}
	s := NewBeaconSeeker(b, bigHull)
	s.Tick(nil, mgl32.Vec2{}, MaxIdleDistance, bigHull, nil)
	if _, ok := s.Destination(); ok {
		t.Error("no beacon should mean no destination")
	}
	b.pos, b.set = mgl32.Vec2{4, 4}, true
	s.Tick(nil, mgl32.Vec2{}, MaxIdleDistance, bigHull, nil)
	if d, ok := s.Destination(); !ok || d != b.pos {
		t.Errorf("Destination = %v %v, want beacon", d, ok)
	}
	if s.DesiredSpeed() != BigAISpeed {
		t.Errorf("DesiredSpeed = %v, want %v", s.DesiredSpeed(), BigAISpeed)
	}
}
