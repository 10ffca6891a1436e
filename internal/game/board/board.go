// Package board holds the branching-path arena the pawns move across.
// Spaces are addressed by (path ID, position) and are mutated only by the
// round resolution flow; nothing else aliases them.
package board

import (
	"math/rand"

	"github.com/Xael/reversus1/internal/game/effects"
)

// Color selects a space's instant behavior class.
type Color int

const (
	ColorNeutral Color = iota
	ColorBlack
	ColorStar
	ColorVersatrix
	ColorBlue
	ColorRed
)

var colorNames = map[Color]string{
	ColorNeutral:   "NEUTRAL",
	ColorBlack:     "BLACK",
	ColorStar:      "STAR",
	ColorVersatrix: "VERSATRIX",
	ColorBlue:      "BLUE",
	ColorRed:       "RED",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "COLOR_UNKNOWN"
}

// Space is a single board cell. An effect fires at most once per occupancy
// cycle; Used tracks that.
type Space struct {
	Color      Color
	EffectName string
	Used       bool
}

// Path is an ordered run of spaces. Index 0 corresponds to position 1.
type Path struct {
	ID     int
	Spaces []Space
}

// Board is the full arena for one match.
type Board struct {
	WinPosition int
	Paths       []Path
}

// New generates a board. Positions 1 and WinPosition are always neutral;
// everything between is colored at random. Blue and red spaces get a named
// effect from the catalog.
func New(numPaths, winPosition int, rng *rand.Rand) *Board {
	b := &Board{
		WinPosition: winPosition,
		Paths:       make([]Path, numPaths),
	}
	positive := effects.PositiveNames()
	negative := effects.NegativeNames()
	for i := range b.Paths {
		b.Paths[i] = Path{ID: i, Spaces: make([]Space, winPosition)}
		for pos := 2; pos < winPosition; pos++ {
			sp := &b.Paths[i].Spaces[pos-1]
			switch roll := rng.Intn(100); {
			case roll < 10:
				sp.Color = ColorBlack
			case roll < 20:
				sp.Color = ColorStar
			case roll < 25:
				sp.Color = ColorVersatrix
			case roll < 45:
				sp.Color = ColorBlue
				sp.EffectName = positive[rng.Intn(len(positive))]
			case roll < 65:
				sp.Color = ColorRed
				sp.EffectName = negative[rng.Intn(len(negative))]
			default:
				sp.Color = ColorNeutral
			}
		}
	}
	return b
}

// Space returns the cell at (pathID, pos), or nil when out of range.
func (b *Board) Space(pathID, pos int) *Space {
	if pathID < 0 || pathID >= len(b.Paths) {
		return nil
	}
	if pos < 1 || pos > len(b.Paths[pathID].Spaces) {
		return nil
	}
	return &b.Paths[pathID].Spaces[pos-1]
}

// ResetUsed clears the Used flag of every space that is not currently
// occupied. Occupied spaces keep their flag so a parked pawn does not
// retrigger the same space each round; the space rearms only after it is
// vacated.
func (b *Board) ResetUsed(occupied func(pathID, pos int) bool) {
	for i := range b.Paths {
		for j := range b.Paths[i].Spaces {
			if occupied(i, j+1) {
				continue
			}
			b.Paths[i].Spaces[j].Used = false
		}
	}
}

// NumPaths returns the number of parallel paths.
func (b *Board) NumPaths() int {
	return len(b.Paths)
}

// Clamp bounds a position to the playable range [1, WinPosition].
func (b *Board) Clamp(pos int) int {
	if pos < 1 {
		return 1
	}
	if pos > b.WinPosition {
		return b.WinPosition
	}
	return pos
}
