package config

import "time"

// BotConfigData holds tuning values for the headless bot driver
type BotConfigData struct {
	ReactionDelay  time.Duration // time between aim decisions
	AttackRange    float64       // distance to start shooting
	WanderInterval time.Duration // how long to keep a wander heading
	TurnRate       float64       // radians per second while turning to a target
	AimTolerance   float64       // radians of yaw error allowed before firing
}

// Bot holds bot configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		ReactionDelay:  250 * time.Millisecond,
		AttackRange:    40.0,
		WanderInterval: 2 * time.Second,
		TurnRate:       3.0,
		AimTolerance:   0.08,
	}
}
