package assets

import (
	"embed"
	"log"
	"sync"

	"github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/shared/leveldata"
)

var (
	//go:embed all:levels
	assetFS embed.FS
)

// ArenaPath is the embedded Tiled map describing the arena.
const ArenaPath = "levels/arena.tmx"

var (
	arenaOnce sync.Once
	arenaData *leveldata.ArenaData
)

// LoadArena returns the embedded arena description. If the map cannot be parsed
// the defaults from config.Arena are returned so the client can still play.
func LoadArena() *leveldata.ArenaData {
	arenaOnce.Do(func() {
		data, err := leveldata.LoadArenaData(assetFS, ArenaPath)
		if err != nil {
			log.Printf("[assets] failed to load arena map, using defaults: %v", err)
			data = &leveldata.ArenaData{
				Name:            "default",
				MaxPlayerX:      config.Arena.MaxPlayerX,
				SpawnMargin:     config.Arena.SpawnMargin,
				ExclusionRadius: config.Arena.ExclusionRadius,
				EyeHeight:       config.Arena.EyeHeight,
			}
		}
		arenaData = data
	})
	return arenaData
}
