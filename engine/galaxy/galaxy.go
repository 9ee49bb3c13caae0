// Package galaxy builds the galaxy graph the population planner fills:
// solar systems on a ring, planets with noise-shaped ground heights, and
// mazes between systems.
package galaxy

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Du4lity5151/DestinationSol/engine/errs"
	"github.com/Du4lity5151/DestinationSol/engine/geom"
	"github.com/Du4lity5151/DestinationSol/engine/rng"
	"github.com/Du4lity5151/DestinationSol/engine/world"
	"github.com/Du4lity5151/DestinationSol/types"
)

// Layout constants.
const (
	MinGroundHeight = 8
	PlanetGap       = 2*(world.MaxGroundHeight+world.AtmosphereHeight) + 12
	BeltWidth       = 20
	MazeRadius      = 30
	MinPlanets      = 3
	MaxPlanets      = 6
	systemGap       = 60
)

// Options controls the build.
type Options struct {
	Seed  int64
	Mazes int
}

// Build creates one solar system per config. Layout draws from r, which
// should be the run's seeded stream; ground heights come from simplex
// noise seeded with opts.Seed.
func Build(configs []*types.SystemConfig, opts Options, r *rng.RNG) (*types.Galaxy, error) {
	if len(configs) == 0 {
		return nil, errs.ConfigErrorf("galaxy: no solar system configs")
	}
	heights := opensimplex.NewNormalized(opts.Seed)

	// 1. Systems, centered at the origin for now.
	g := &types.Galaxy{}
	var maxRadius float32
	for i, cfg := range configs {
		sys := buildSystem(i, cfg, heights, r)
		if sys.Radius > maxRadius {
			maxRadius = sys.Radius
		}
		g.Systems = append(g.Systems, sys)
	}

	// 2. Spread them on a ring wide enough that neighbors never overlap.
	ring := ringRadius(len(g.Systems), 2*maxRadius+systemGap)
	step := 360 / float32(len(g.Systems))
	for i, sys := range g.Systems {
		if len(g.Systems) > 1 {
			sys.Position = geom.FromAngle(step*float32(i), ring)
		}
		for _, p := range sys.Planets {
			p.SystemPos = sys.Position
		}
	}

	// 3. Mazes sit outside the ring between systems.
	for i := 0; i < opts.Mazes; i++ {
		angle := step*float32(i) + step/2
		g.Mazes = append(g.Mazes, &types.Maze{
			Position: geom.FromAngle(angle, ring+maxRadius+MazeRadius+systemGap),
			Radius:   MazeRadius,
		})
	}
	return g, nil
}

func buildSystem(index int, cfg *types.SystemConfig, heights opensimplex.Noise, r *rng.RNG) *types.SolarSystem {
	sys := &types.SolarSystem{Name: cfg.Name, Config: cfg}
	if sys.Name == "" {
		sys.Name = fmt.Sprintf("System %d", index+1)
	}
	count := MinPlanets + r.Intn(MaxPlanets-MinPlanets+1)
	dist := float32(world.SunRadius) + PlanetGap/2
	for k := 0; k < count; k++ {
		n := heights.Eval2(float64(index)*7.3, float64(k)*3.1)
		ground := MinGroundHeight + float32(n)*(world.MaxGroundHeight-MinGroundHeight)
		spin := r.Range(2, 6)
		if r.Test(0.5) {
			spin = -spin
		}
		sys.Planets = append(sys.Planets, &types.Planet{
			Name:          fmt.Sprintf("%s %s", sys.Name, numeral(k+1)),
			Index:         k,
			Distance:      dist,
			Angle:         r.Float32(360),
			RotationSpeed: spin,
			GroundHeight:  ground,
			FullHeight:    ground + world.AtmosphereHeight,
		})
		dist += PlanetGap
	}
	last := sys.Planets[len(sys.Planets)-1]
	sys.InnerRadius = last.Distance + last.FullHeight
	sys.Radius = sys.InnerRadius + BeltWidth
	return sys
}

// ringRadius returns the radius at which n points spaced evenly on a circle
// are chord apart.
func ringRadius(n int, chord float32) float32 {
	if n < 2 {
		return 0
	}
	if n == 2 {
		return chord / 2
	}
	half := geom.FromAngle(180/float32(n), 1).Y()
	return chord / (2 * half)
}

func numeral(n int) string {
	vals := []int{10, 9, 5, 4, 1}
	syms := []string{"X", "IX", "V", "IV", "I"}
	out := ""
	for i, v := range vals {
		for n >= v {
			out += syms[i]
			n -= v
		}
	}
	return out
}
