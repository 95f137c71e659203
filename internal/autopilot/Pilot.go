package autopilot

import "github.com/Mshel/gridsnake/internal/game"

// SafeName selects the Go-native game.SafePilot instead of a script.
const SafeName = "safe"

// Pilot is a game.Pilot that holds resources until Close.
type Pilot interface {
	game.Pilot
	Close()
}

type safePilot struct {
	*game.SafePilot
}

func (safePilot) Close() {}

// Open returns the pilot named by the autopilot setting: SafeName, BuiltinName
// or a script path.
func Open(name string) (Pilot, error) {
	if name == SafeName {
		return safePilot{game.NewSafePilot()}, nil
	}
	script, err := Load(name)
	if err != nil {
		return nil, err
	}
	return script, nil
}
