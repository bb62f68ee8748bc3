package peers

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	cfg "github.com/automoto/doomerang-arena/config"
)

// ParseColor resolves a "#rrggbb" string to 0xrrggbb. Anything else resolves
// to the fallback color.
func ParseColor(s string) uint32 {
	if len(s) != 7 || s[0] != '#' {
		return cfg.Player.FallbackColor
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return cfg.Player.FallbackColor
	}
	return uint32(v)
}

// FormatColor is the inverse of ParseColor.
func FormatColor(c uint32) string {
	return fmt.Sprintf("#%06x", c&0xffffff)
}

// RandomColor returns a color in [RandomColorMin, RandomColorMax]. Dark colors
// are excluded so every avatar stays visible.
func RandomColor(rng *rand.Rand) uint32 {
	lo, hi := cfg.Player.RandomColorMin, cfg.Player.RandomColorMax
	return lo + rng.Uint32N(hi-lo+1)
}

// Tint darkens a base color by remaining health: full health shows the base
// color, zero health shows 35% of it.
func Tint(base uint32, hp, maxHP float64) uint32 {
	ratio := hp / maxHP
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	k := 0.35 + 0.65*ratio
	r := float64(base>>16&0xff) * k
	g := float64(base>>8&0xff) * k
	b := float64(base&0xff) * k
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
