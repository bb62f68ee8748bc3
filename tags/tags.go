package tags

import "github.com/yohamta/donburi"

var (
	RemotePeer = donburi.NewTag().SetName("RemotePeer")
)

// Resolv tags for the hit-volume space
const (
	ResolvPeer  = "peer"
	ResolvQuery = "query"
)
