package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// HitVolumeData is the footprint of a peer in the broadphase space. The space
// is the arena seen from above: resolv X is world x, resolv Y is world z.
type HitVolumeData struct {
	*resolv.Object
}

var HitVolume = donburi.NewComponentType[HitVolumeData]()

// Space is the singleton broadphase space.
var Space = donburi.NewComponentType[resolv.Space]()
