package components

import "github.com/yohamta/donburi"

// PeerData identifies a remote participant.
type PeerData struct {
	ID        string
	Name      string
	BaseColor uint32 // 0xrrggbb
}

var Peer = donburi.NewComponentType[PeerData]()
