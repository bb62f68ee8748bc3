package config

import "github.com/gdamore/tcell/v2"

// ActionID represents a logical game action
type ActionID int

const (
	ActionNone ActionID = iota
	ActionMoveForward
	ActionMoveBack
	ActionStrafeLeft
	ActionStrafeRight
	ActionTurnLeft
	ActionTurnRight
	ActionLookUp
	ActionLookDown
	ActionShoot
	ActionToggleControl
	ActionQuit
	ActionCount // Must be last - used for array sizing
)

// InputBinding represents the keys bound to an action
type InputBinding struct {
	Keys  []tcell.Key
	Runes []rune
}

// InputConfig holds all input mappings
type InputConfig struct {
	Bindings map[ActionID]InputBinding
	// Radians applied per key press
	TurnStep  float64
	PitchStep float64
	// Seconds of movement applied per key press
	MoveStep float64
}

// Input is the global input configuration
var Input InputConfig

func init() {
	Input = InputConfig{
		Bindings: map[ActionID]InputBinding{
			ActionMoveForward:   {Keys: []tcell.Key{tcell.KeyUp}, Runes: []rune{'w', 'W'}},
			ActionMoveBack:      {Keys: []tcell.Key{tcell.KeyDown}, Runes: []rune{'s', 'S'}},
			ActionStrafeLeft:    {Runes: []rune{'a', 'A'}},
			ActionStrafeRight:   {Runes: []rune{'d', 'D'}},
			ActionTurnLeft:      {Keys: []tcell.Key{tcell.KeyLeft}, Runes: []rune{'q', 'Q'}},
			ActionTurnRight:     {Keys: []tcell.Key{tcell.KeyRight}, Runes: []rune{'e', 'E'}},
			ActionLookUp:        {Keys: []tcell.Key{tcell.KeyPgUp}, Runes: []rune{'r', 'R'}},
			ActionLookDown:      {Keys: []tcell.Key{tcell.KeyPgDn}, Runes: []rune{'f', 'F'}},
			ActionShoot:         {Runes: []rune{' '}},
			ActionToggleControl: {Keys: []tcell.Key{tcell.KeyTab}},
			ActionQuit:          {Keys: []tcell.Key{tcell.KeyEscape, tcell.KeyCtrlC}},
		},
		TurnStep:  0.12,
		PitchStep: 0.08,
		MoveStep:  0.1,
	}
}

// ActionFor resolves a key event to its bound action.
func ActionFor(key tcell.Key, r rune) ActionID {
	for action, b := range Input.Bindings {
		if key == tcell.KeyRune {
			for _, br := range b.Runes {
				if br == r {
					return action
				}
			}
			continue
		}
		for _, k := range b.Keys {
			if k == key {
				return action
			}
		}
	}
	return ActionNone
}
