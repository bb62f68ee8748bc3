package components

import (
	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/yohamta/donburi"
)

// AudioData stores cues waiting for the presentation layer (singleton component)
type AudioData struct {
	PendingSFX []cfg.SoundID
}

var Audio = donburi.NewComponentType[AudioData]()
