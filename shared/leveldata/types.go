// Package leveldata provides TMX arena parsing shared between client and relay.
// It has no dependencies on donburi or resolv. Pure data only.
package leveldata

// ArenaData holds the arena geometry parsed from a TMX file. Map units are
// world units; the arena is centred on the origin.
type ArenaData struct {
	Name            string
	MaxPlayerX      float64 // players are clamped to ±MaxPlayerX on x and z
	SpawnMargin     float64 // spawns stay this far inside MaxPlayerX
	ExclusionRadius float64 // no spawns within this radius of the centre
	EyeHeight       float64
	Markers         []Marker
}

// SpawnExtent is the half-width of the square spawns are drawn from.
func (a *ArenaData) SpawnExtent() float64 {
	return a.MaxPlayerX - a.SpawnMargin
}

// Marker is a fallback spawn point, in centred world coordinates.
type Marker struct {
	Name string
	X, Z float64
}
