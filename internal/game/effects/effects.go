package effects

import "fmt"

// ScoreEffect is the score-modifying effect a player can carry into
// resolution. A player has at most one at a time; applying a new one
// replaces the old one.
type ScoreEffect int

const (
	ScoreNone ScoreEffect = iota
	ScoreMais
	ScoreMenos
	ScoreNecroX
	ScoreNecroXInvertido
)

var scoreNames = map[ScoreEffect]string{
	ScoreNone:            "NONE",
	ScoreMais:            "Mais",
	ScoreMenos:           "Menos",
	ScoreNecroX:          "NECRO X",
	ScoreNecroXInvertido: "NECRO X Invertido",
}

func (s ScoreEffect) String() string {
	if name, ok := scoreNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SCORE_EFFECT_%d", int(s))
}

// Inverted returns the opposite-polarity effect of the same pair.
// Used by the Reversus card and by board-wide reversal mode.
func (s ScoreEffect) Inverted() ScoreEffect {
	switch s {
	case ScoreMais:
		return ScoreMenos
	case ScoreMenos:
		return ScoreMais
	case ScoreNecroX:
		return ScoreNecroXInvertido
	case ScoreNecroXInvertido:
		return ScoreNecroX
	}
	return s
}

// MovementEffect is the movement-modifying effect a player can carry
// into resolution. Same replacement rule as ScoreEffect.
type MovementEffect int

const (
	MoveNone MovementEffect = iota
	MoveSobe
	MoveDesce
	MovePula
)

var movementNames = map[MovementEffect]string{
	MoveNone:  "NONE",
	MoveSobe:  "Sobe",
	MoveDesce: "Desce",
	MovePula:  "Pula",
}

func (m MovementEffect) String() string {
	if name, ok := movementNames[m]; ok {
		return name
	}
	return fmt.Sprintf("MOVEMENT_EFFECT_%d", int(m))
}

// Inverted swaps Sobe and Desce. Pula has no opposite and is unchanged.
func (m MovementEffect) Inverted() MovementEffect {
	switch m {
	case MoveSobe:
		return MoveDesce
	case MoveDesce:
		return MoveSobe
	}
	return m
}

// ScoreEffectFromCard maps an effect card name to its score effect.
func ScoreEffectFromCard(name string) (ScoreEffect, bool) {
	for eff, n := range scoreNames {
		if eff != ScoreNone && n == name {
			return eff, true
		}
	}
	return ScoreNone, false
}

// MovementEffectFromCard maps an effect card name to its movement effect.
func MovementEffectFromCard(name string) (MovementEffect, bool) {
	for eff, n := range movementNames {
		if eff != MoveNone && n == name {
			return eff, true
		}
	}
	return MoveNone, false
}
