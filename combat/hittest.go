package combat

import (
	"sort"

	"github.com/automoto/doomerang-arena/peers"
	"github.com/automoto/doomerang-arena/shared/gamemath"
)

// Hit is a candidate the shot ray intersects.
type Hit struct {
	ID       string
	Distance float64
}

// HitTester is the narrowphase. Results must be sorted by distance, with ties
// kept in candidate order.
type HitTester interface {
	Test(origin, dir gamemath.Vec3, candidates []peers.Target) []Hit
}

// RayTester intersects the shot ray with each candidate's box.
type RayTester struct {
	Range float64
}

func (t RayTester) Test(origin, dir gamemath.Vec3, candidates []peers.Target) []Hit {
	dir = dir.Normalize()
	if dir == (gamemath.Vec3{}) {
		return nil
	}

	var hits []Hit
	for _, c := range candidates {
		dist, ok := gamemath.RayAABB(origin, dir, c.Box)
		if !ok || dist > t.Range {
			continue
		}
		hits = append(hits, Hit{ID: c.ID, Distance: dist})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}
