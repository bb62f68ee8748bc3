package config

// LifeState is the lifecycle state of a player.
type LifeState int

const (
	LifeAlive LifeState = iota
	LifeDead
)

func (s LifeState) String() string {
	if s == LifeDead {
		return "dead"
	}
	return "alive"
}

// PeerLife is the lifecycle state of a remote peer as seen by this client.
// PeerDying and PeerDead both count as "not alive"; PeerDead means the
// collapse animation has finished.
type PeerLife int

const (
	PeerAlive PeerLife = iota
	PeerDying
	PeerDead
)

func (s PeerLife) String() string {
	switch s {
	case PeerDying:
		return "dying"
	case PeerDead:
		return "dead"
	default:
		return "alive"
	}
}
