package rules

import "fmt"

// GamePhase is the coarse lifecycle state of a match.
type GamePhase int

const (
	PhasePlaying GamePhase = iota
	PhasePaused
	PhaseResolution
	PhaseGameOver
)

var phaseNames = map[GamePhase]string{
	PhasePlaying:    "PLAYING",
	PhasePaused:     "PAUSED",
	PhaseResolution: "RESOLUTION",
	PhaseGameOver:   "GAME_OVER",
}

func (p GamePhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}
