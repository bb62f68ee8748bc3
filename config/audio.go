package config

// SoundID represents a logical sound cue. Audio synthesis lives outside this
// repo; the presentation layer decides how a cue is rendered.
type SoundID int

const (
	SoundNone SoundID = iota
	SoundShot
	SoundDeath
)

func (s SoundID) String() string {
	switch s {
	case SoundShot:
		return "shot"
	case SoundDeath:
		return "death"
	default:
		return "none"
	}
}
