package peers

import (
	"math"
	"sort"

	"github.com/automoto/doomerang-arena/components"
	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/shared/gamemath"
	"github.com/automoto/doomerang-arena/systems/factory"
	"github.com/automoto/doomerang-arena/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// Target is a shootable hit volume belonging to a peer.
type Target struct {
	ID  string
	Box gamemath.AABB
}

// Candidates returns hit volumes of live peers near the segment from origin
// along dir for length units. It is a broadphase only: results are ordered by
// id and callers still run a precise ray test.
func (r *Registry) Candidates(origin, dir gamemath.Vec3, length float64) []Target {
	spaceEntry, ok := components.Space.First(r.ecs.World)
	if !ok || len(r.byID) == 0 {
		return nil
	}
	space := components.Space.Get(spaceEntry)
	off := factory.SpaceOffset(space)
	size := float64(space.Width() * space.CellWidth)

	end := origin.Add(dir.Normalize().Scale(length))
	minX := gamemath.Clamp(math.Min(origin.X, end.X)+off, 0, size-1)
	maxX := gamemath.Clamp(math.Max(origin.X, end.X)+off, 0, size-1)
	minZ := gamemath.Clamp(math.Min(origin.Z, end.Z)+off, 0, size-1)
	maxZ := gamemath.Clamp(math.Max(origin.Z, end.Z)+off, 0, size-1)

	// The query box covers the segment's footprint; cells give the candidate set.
	query := resolv.NewObject(minX, minZ, math.Max(1, maxX-minX), math.Max(1, maxZ-minZ), tags.ResolvQuery)
	space.Add(query)
	defer space.Remove(query)

	collision := query.Check(0, 0, tags.ResolvPeer)
	if collision == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []Target
	for _, obj := range collision.ObjectsByTags(tags.ResolvPeer) {
		e, ok := obj.Data.(*donburi.Entry)
		if !ok || !e.Valid() {
			continue
		}
		if !components.Death.Get(e).Alive() {
			continue
		}
		id := components.Peer.Get(e).ID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, Target{ID: id, Box: hitBox(components.Transform.Get(e))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// hitBox is the peer's body volume: centred on x/z, standing on the floor.
func hitBox(t *components.TransformData) gamemath.AABB {
	hw, hd := cfg.Combat.HitWidth/2, cfg.Combat.HitDepth/2
	return gamemath.AABB{
		Min: gamemath.Vec3{X: t.X - hw, Y: 0, Z: t.Z - hd},
		Max: gamemath.Vec3{X: t.X + hw, Y: cfg.Combat.HitHeight, Z: t.Z + hd},
	}
}
