package components

import "github.com/yohamta/donburi"

// ClockData carries the frame delta into systems (singleton component).
type ClockData struct {
	Delta   float64 // seconds
	Elapsed float64
}

var Clock = donburi.NewComponentType[ClockData]()
