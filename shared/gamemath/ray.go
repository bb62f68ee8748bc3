package gamemath

import "math"

// AABB is an axis-aligned box given by its min and max corners.
type AABB struct {
	Min, Max Vec3
}

// RayAABB intersects a ray with a box using the slab method. It returns the
// distance along dir (in units of |dir|) to the entry point, or ok=false when
// the ray misses or the box lies entirely behind the origin. A ray starting
// inside the box hits at distance 0.
func RayAABB(origin, dir Vec3, box AABB) (dist float64, ok bool) {
	tmin := 0.0
	tmax := math.Inf(1)

	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (lo[i] - o[i]) * inv
		t2 := (hi[i] - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
