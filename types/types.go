// Package types defines the shared data structures for the DestinationSol core.
// This package contains only type definitions, no logic and no methods.
package types

import "github.com/go-gl/mathgl/mgl32"

// FactionID is the stable identifier of a faction ("module:key").
type FactionID string

// HullDesignID identifies a hull record in the hull catalog ("module:key").
type HullDesignID string

// ShipID identifies a spawned ship within one run.
type ShipID int

// Well-known faction identifiers.
const (
	PlayerFaction       FactionID = "engine:player"
	GenericAllyFaction  FactionID = "engine:laani"
	GenericEnemyFaction FactionID = "engine:ehar"
)

// BusHull is the hull the "trader" spawn place looks for.
const BusHull HullDesignID = "core:bus"

// HullType classifies hulls for the planner's ally/enemy bookkeeping.
type HullType string

const (
	HullStd     HullType = "std"
	HullBig     HullType = "big"
	HullStation HullType = "station"
)

// HullConfig is a hull record from the hull catalog.
type HullConfig struct {
	ID           HullDesignID
	Type         HullType
	ApproxRadius float32
	Size         float32
	Speed        float32 // max speed; zero means the pilot default
}

// ItemConfig is an item record from the item catalog.
type ItemConfig struct {
	Code       string
	Kind       string
	Price      int
	GuideSpeed float32 // guns only; degrees per second, zero for unguided
}

// TradeConfig is the trade table attached to stations of a system.
type TradeConfig struct {
	Items string // items script
	Money int
}

// ShipRecipe is a configuration-time ship blueprint.
type ShipRecipe struct {
	Hull      *HullConfig
	Items     string // items script
	Waypoints string // waypoint script, player recipes only
	Money     int
	Density   float32
	Guard     *ShipRecipe
}

// SystemConfig provides the recipes and trade table for one solar system.
type SystemConfig struct {
	Name         string
	Hard         bool
	ConstAllies  []ShipRecipe
	ConstEnemies []ShipRecipe
	Trade        TradeConfig
}

// Planet is one orbiting body. Angles are in degrees.
type Planet struct {
	Name          string
	Index         int
	SystemPos     mgl32.Vec2
	Distance      float32 // orbital distance from the system centre
	Angle         float32 // orbital angle
	RotationSpeed float32 // spin; the sign gives the direction
	GroundHeight  float32
	FullHeight    float32 // ground height plus atmosphere
}

// SolarSystem is a star with its planets.
type SolarSystem struct {
	Name        string
	Position    mgl32.Vec2
	Radius      float32
	InnerRadius float32
	Planets     []*Planet
	Config      *SystemConfig
}

// Maze is a hazardous structure in deep space.
type Maze struct {
	Position mgl32.Vec2
	Radius   float32
}

// Galaxy is the built galaxy graph consumed by the population planner.
type Galaxy struct {
	Systems []*SolarSystem
	Mazes   []*Maze
}

// Waypoint is a player map marker.
type Waypoint struct {
	Position mgl32.Vec2
	Color    [3]float32
}

// Intent is the parsed representation of a console command.
type Intent struct {
	Verb string
	Args []string
}

// Event is emitted by the simulation during a tick.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single console command.
type Result struct {
	Events []Event
	Output []string
}
