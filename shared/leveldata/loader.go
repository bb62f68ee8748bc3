package leveldata

import (
	"fmt"
	"io/fs"

	"github.com/lafriks/go-tiled"
)

const (
	arenaGroup   = "Arena"
	boundsObject = "bounds"
	markerGroup  = "Markers"
)

// LoadArenaData parses a TMX file and returns the arena bounds and markers. It
// takes an fs.FS so callers can pass embed.FS (client) or os.DirFS (relay).
//
// The map's pixel grid is translated so its centre becomes the world origin; a
// map of 140x140 one-unit tiles spans -70..70 on both axes.
func LoadArenaData(fsys fs.FS, tmxPath string) (*ArenaData, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	halfW := float64(levelMap.Width*levelMap.TileWidth) / 2
	halfH := float64(levelMap.Height*levelMap.TileHeight) / 2

	data := &ArenaData{
		Name: levelMap.Properties.GetString("name"),
	}

	found := false
	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case arenaGroup:
			for _, o := range og.Objects {
				if o.Name != boundsObject {
					continue
				}
				data.MaxPlayerX = o.Properties.GetFloat("maxPlayerX")
				data.SpawnMargin = o.Properties.GetFloat("spawnMargin")
				data.ExclusionRadius = o.Properties.GetFloat("exclusionRadius")
				data.EyeHeight = o.Properties.GetFloat("eyeHeight")
				found = true
			}
		case markerGroup:
			for _, o := range og.Objects {
				data.Markers = append(data.Markers, Marker{
					Name: o.Name,
					X:    o.X + o.Width/2 - halfW,
					Z:    o.Y + o.Height/2 - halfH,
				})
			}
		}
	}

	if !found {
		return nil, fmt.Errorf("TMX %s: no %q object in %q group", tmxPath, boundsObject, arenaGroup)
	}
	if data.MaxPlayerX <= 0 || data.SpawnExtent() <= 0 {
		return nil, fmt.Errorf("TMX %s: invalid bounds maxPlayerX=%.2f spawnMargin=%.2f",
			tmxPath, data.MaxPlayerX, data.SpawnMargin)
	}

	return data, nil
}
