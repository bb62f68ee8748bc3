package ui

import (
	"fmt"
	"math"
	"strings"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/peers"
	"github.com/automoto/doomerang-arena/session"
)

const healthBarWidth = 20

// HUDLine is the summary row: kills, room population and the closest peers.
func HUDLine(v session.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Kills: %d | Players: %d | Closest: ", v.Kills, v.Players)
	if len(v.Closest) == 0 {
		b.WriteString("none")
		return b.String()
	}
	for i, p := range v.Closest {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %.0fm", displayName(p.PeerView), p.Distance)
		if p.Dying() {
			b.WriteString(" (down)")
		}
	}
	return b.String()
}

// HealthLine shows the local health bar, or the respawn countdown while dead.
func HealthLine(v session.View) string {
	if !v.Alive {
		return fmt.Sprintf("DEAD  respawning in %.1fs", math.Max(0, v.RespawnIn))
	}
	filled := int(math.Round(float64(v.HP) / cfg.Player.MaxHP * healthBarWidth))
	filled = max(0, min(healthBarWidth, filled))
	return fmt.Sprintf("HP %3d [%s%s]", v.HP,
		strings.Repeat("#", filled), strings.Repeat(" ", healthBarWidth-filled))
}

// IdentityLine names the local player.
func IdentityLine(v session.View) string {
	mode := "paused"
	if v.Controlled {
		mode = "in control"
	}
	return fmt.Sprintf("%s %s  (%s)", v.Name, v.Color, mode)
}

// Heading returns an arrow for a yaw. Yaw 0 faces up the radar.
func Heading(yaw float64) rune {
	arrows := []rune{'^', '<', 'v', '>'}
	// yaw increases counter-clockwise seen from above
	q := int(math.Round(yaw/(math.Pi/2))) % 4
	if q < 0 {
		q += 4
	}
	return arrows[q]
}

func displayName(p peers.PeerView) string {
	if p.Name != "" {
		return p.Name
	}
	if len(p.ID) > 8 {
		return p.ID[:8]
	}
	return p.ID
}
