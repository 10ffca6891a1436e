package effects

// Polarity classifies a field effect as helpful or harmful to the player
// it lands on.
type Polarity int

const (
	PolarityPositive Polarity = iota
	PolarityNegative
)

func (p Polarity) String() string {
	if p == PolarityPositive {
		return "POSITIVE"
	}
	return "NEGATIVE"
}

// Field effect names. Blue spaces draw from the positive set, red spaces
// from the negative set.
const (
	FieldRestoMaior       = "Resto Maior"
	FieldRestoMenor       = "Resto Menor"
	FieldDesafio          = "Desafio"
	FieldImpulso          = "Impulso"
	FieldCastigo          = "Castigo"
	FieldParada           = "Parada"
	FieldEfeitosDobrados  = "Efeitos Dobrados"
	FieldJogoAberto       = "Jogo Aberto"
	FieldCartaMaior       = "Carta Maior"
	FieldCartaMenor       = "Carta Menor"
	FieldReversusTotal    = "Reversus Total"
	FieldTotalRevesusNada = "Total Revesus Nada!"
)

// FieldEffect is the static catalog entry for a named space effect.
// Immediate effects perform a side effect the moment they fire; the rest
// are recorded and consumed during end-of-round resolution.
type FieldEffect struct {
	Name        string
	Polarity    Polarity
	Immediate   bool
	Description string
}

var catalog = map[string]FieldEffect{
	FieldRestoMaior: {FieldRestoMaior, PolarityPositive, false,
		"Seu resto vale 10 nesta rodada."},
	FieldDesafio: {FieldDesafio, PolarityPositive, false,
		"Vença a rodada sem Mais e sem Sobe para avançar 3 casas."},
	FieldImpulso: {FieldImpulso, PolarityPositive, false,
		"Se você perder a rodada, avança 1 casa mesmo assim."},
	FieldCartaMaior: {FieldCartaMaior, PolarityPositive, true,
		"Descarte sua carta de menor valor e compre outra."},
	FieldRestoMenor: {FieldRestoMenor, PolarityNegative, false,
		"Seu resto vale 2 nesta rodada."},
	FieldCastigo: {FieldCastigo, PolarityNegative, false,
		"Se você perder a rodada, volta 3 casas."},
	FieldParada: {FieldParada, PolarityNegative, false,
		"Se você vencer a rodada, não avança."},
	FieldEfeitosDobrados: {FieldEfeitosDobrados, PolarityNegative, false,
		"Todos os seus efeitos negativos valem em dobro."},
	FieldJogoAberto: {FieldJogoAberto, PolarityNegative, true,
		"Sua mão fica revelada para todos."},
	FieldCartaMenor: {FieldCartaMenor, PolarityNegative, true,
		"Descarte sua carta de maior valor e compre outra."},
	FieldReversusTotal: {FieldReversusTotal, PolarityNegative, true,
		"Reversus Total! Todos os efeitos do tabuleiro se invertem."},
	FieldTotalRevesusNada: {FieldTotalRevesusNada, PolarityNegative, true,
		"Seu parceiro descarta cartas de efeito até restar apenas uma."},
}

// Lookup returns the catalog entry for a field effect name.
func Lookup(name string) (FieldEffect, bool) {
	fe, ok := catalog[name]
	return fe, ok
}

// PositiveNames returns the names blue spaces can carry, in a fixed order.
func PositiveNames() []string {
	return []string{FieldRestoMaior, FieldDesafio, FieldImpulso, FieldCartaMaior}
}

// NegativeNames returns the names red spaces can carry, in a fixed order.
func NegativeNames() []string {
	return []string{
		FieldRestoMenor, FieldCastigo, FieldParada, FieldEfeitosDobrados,
		FieldJogoAberto, FieldCartaMenor, FieldReversusTotal, FieldTotalRevesusNada,
	}
}

// Active is a field effect recorded against a player, consumed during
// end-of-round resolution and cleared at round start.
type Active struct {
	Name      string
	Polarity  Polarity
	AppliesTo string
}

// AnyActive reports whether an effect with the given name targets the player.
func AnyActive(active []Active, name, playerID string) bool {
	for _, a := range active {
		if a.Name == name && a.AppliesTo == playerID {
			return true
		}
	}
	return false
}
