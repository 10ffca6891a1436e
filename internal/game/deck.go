package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// Effect card names dealt from the effect deck. Reversus inverts another
// player's active effect within its category; the NECRO X pair only exists
// in the final-boss battle deck.
const (
	cardMais            = "Mais"
	cardMenos           = "Menos"
	cardSobe            = "Sobe"
	cardDesce           = "Desce"
	cardPula            = "Pula"
	cardReversus        = "Reversus"
	cardNecroX          = "NECRO X"
	cardNecroXInvertido = "NECRO X Invertido"
)

const (
	copiesPerValue   = 4
	copiesPerEffect  = 4
	handValueTarget  = 3
	handEffectTarget = 2
)

// Deck supplies shuffled value and effect cards and tracks discard piles.
// Deal returns nil on exhaustion; there is no reshuffle mid-match.
type Deck struct {
	value  []*Card
	effect []*Card

	DiscardValue  []*Card
	DiscardEffect []*Card
}

// NewDeck builds and shuffles the two draw piles for a match. The
// final-boss battle injects the NECRO X pair into the effect pile.
func NewDeck(rng *rand.Rand, story StoryBattle) *Deck {
	d := &Deck{}
	for v := 1; v <= 10; v++ {
		for i := 0; i < copiesPerValue; i++ {
			d.value = append(d.value, &Card{ID: uuid.NewString(), Kind: CardValue, Value: v})
		}
	}
	names := []string{cardMais, cardMenos, cardSobe, cardDesce, cardPula, cardReversus}
	for _, name := range names {
		for i := 0; i < copiesPerEffect; i++ {
			d.effect = append(d.effect, &Card{ID: uuid.NewString(), Kind: CardEffect, Name: name})
		}
	}
	if story == BattleFinalBoss {
		for i := 0; i < 2; i++ {
			d.effect = append(d.effect, &Card{ID: uuid.NewString(), Kind: CardEffect, Name: cardNecroX})
			d.effect = append(d.effect, &Card{ID: uuid.NewString(), Kind: CardEffect, Name: cardNecroXInvertido})
		}
	}
	rng.Shuffle(len(d.value), func(i, j int) { d.value[i], d.value[j] = d.value[j], d.value[i] })
	rng.Shuffle(len(d.effect), func(i, j int) { d.effect[i], d.effect[j] = d.effect[j], d.effect[i] })
	return d
}

// Deal removes and returns the top card of the requested pile. Returns nil
// when the pile is empty; callers must treat nil as a hard stop for the
// operation in progress.
func (d *Deck) Deal(kind CardKind) *Card {
	pile := &d.value
	if kind == CardEffect {
		pile = &d.effect
	}
	if len(*pile) == 0 {
		return nil
	}
	c := (*pile)[len(*pile)-1]
	*pile = (*pile)[:len(*pile)-1]
	return c
}

// Discard moves a card onto its discard pile.
func (d *Deck) Discard(c *Card) {
	if c == nil {
		return
	}
	if c.Kind == CardValue {
		d.DiscardValue = append(d.DiscardValue, c)
	} else {
		d.DiscardEffect = append(d.DiscardEffect, c)
	}
}

// Remaining returns the number of undrawn cards of a kind.
func (d *Deck) Remaining(kind CardKind) int {
	if kind == CardValue {
		return len(d.value)
	}
	return len(d.effect)
}
