package components

import "github.com/yohamta/donburi"

// TransformData is the last reported pose of a remote peer. Y is eye height;
// the body rests on the floor.
type TransformData struct {
	X, Y, Z    float64
	Yaw, Pitch float64
}

var Transform = donburi.NewComponentType[TransformData]()
