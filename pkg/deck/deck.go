package deck

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/spotdeck/pkg/errors"
)

// Card is the ordered list of symbol indices printed on one card.
type Card []int

// Contains reports whether the card carries symbol s.
func (c Card) Contains(s int) bool {
	return slices.Contains(c, s)
}

// Table is an immutable deck of cards satisfying the shared-symbol invariant.
// Accessors return copies so callers cannot break the invariant.
type Table struct {
	size    int
	symbols int
	cards   []Card
}

// Generate builds the deck for the given number of symbols per card.
// symbolsPerCard-1 must be prime.
func Generate(symbolsPerCard int) (Table, error) {
	if symbolsPerCard < 3 {
		return Table{}, errors.New(errors.ErrCodeInvalidOrder,
			"symbols per card must be at least 3, got %d", symbolsPerCard)
	}
	n := symbolsPerCard - 1
	if !IsPrime(n) {
		return Table{}, errors.New(errors.ErrCodeInvalidOrder,
			"symbols per card minus one must be prime, got %d (order %d)", symbolsPerCard, n)
	}

	cards := make([]Card, 0, CardsNeeded(symbolsPerCard))

	// Pencil through the pivot symbol 0.
	for i := 0; i <= n; i++ {
		c := make(Card, 0, n+1)
		c = append(c, 0)
		for j := 0; j < n; j++ {
			c = append(c, 1+i*n+j)
		}
		cards = append(cards, c)
	}

	base := n + 1
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := make(Card, 0, n+1)
			c = append(c, i+1)
			for m := 0; m < n; m++ {
				c = append(c, base+n*m+(i*m+j)%n)
			}
			cards = append(cards, c)
		}
	}

	return Table{size: symbolsPerCard, symbols: SymbolsNeeded(symbolsPerCard), cards: cards}, nil
}

// SymbolsNeeded returns the pool size required for a deck with k symbols per card.
func SymbolsNeeded(k int) int {
	n := k - 1
	return n*n + n + 1
}

// CardsNeeded returns the number of cards in a deck with k symbols per card.
// A projective plane has as many lines as points, so it equals SymbolsNeeded.
func CardsNeeded(k int) int {
	return SymbolsNeeded(k)
}

// IsPrime reports whether n is a prime number.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// Len returns the number of cards.
func (t Table) Len() int { return len(t.cards) }

// CardSize returns the number of symbols per card.
func (t Table) CardSize() int { return t.size }

// SymbolCount returns the number of distinct symbols the deck uses.
func (t Table) SymbolCount() int { return t.symbols }

// Card returns a copy of card i.
func (t Table) Card(i int) Card {
	return slices.Clone(t.cards[i])
}

// Cards returns a copy of all cards in deck order.
func (t Table) Cards() []Card {
	out := make([]Card, len(t.cards))
	for i, c := range t.cards {
		out[i] = slices.Clone(c)
	}
	return out
}

// Shared returns the symbol cards a and b have in common. ok is false when the
// cards share no symbol or a == b.
func (t Table) Shared(a, b int) (symbol int, ok bool) {
	if a == b {
		return 0, false
	}
	for _, s := range t.cards[a] {
		if t.cards[b].Contains(s) {
			return s, true
		}
	}
	return 0, false
}

// Occurrences returns how many cards each symbol appears on.
// In a valid deck every symbol appears on exactly CardSize cards.
func (t Table) Occurrences() []int {
	counts := make([]int, t.symbols)
	for _, c := range t.cards {
		for _, s := range c {
			if s >= 0 && s < len(counts) {
				counts[s]++
			}
		}
	}
	return counts
}

// Validate checks every structural property of the table: constant card
// size, in-range and distinct indices, and exactly one shared symbol for every
// pair of cards.
func (t Table) Validate() error {
	if len(t.cards) == 0 {
		return errors.New(errors.ErrCodeInvariant, "deck has no cards")
	}
	for i, c := range t.cards {
		if len(c) != t.size {
			return errors.New(errors.ErrCodeInvariant, "card %d has %d symbols, want %d", i, len(c), t.size)
		}
		seen := make(map[int]bool, len(c))
		for _, s := range c {
			if s < 0 || s >= t.symbols {
				return errors.New(errors.ErrCodeInvariant, "card %d references symbol %d outside 0..%d", i, s, t.symbols-1)
			}
			if seen[s] {
				return errors.New(errors.ErrCodeInvariant, "card %d repeats symbol %d", i, s)
			}
			seen[s] = true
		}
	}
	for a := 0; a < len(t.cards); a++ {
		for b := a + 1; b < len(t.cards); b++ {
			if n := intersection(t.cards[a], t.cards[b]); n != 1 {
				return errors.New(errors.ErrCodeInvariant, "cards %d and %d share %d symbols, want 1", a, b, n)
			}
		}
	}
	return nil
}

func intersection(a, b Card) int {
	n := 0
	for _, s := range a {
		if b.Contains(s) {
			n++
		}
	}
	return n
}

// String returns a short description such as "57 cards × 8 symbols".
func (t Table) String() string {
	return fmt.Sprintf("%d cards × %d symbols", len(t.cards), t.size)
}

type tableJSON struct {
	SymbolsPerCard int     `json:"symbols_per_card"`
	SymbolCount    int     `json:"symbol_count"`
	Cards          [][]int `json:"cards"`
}

// MarshalJSON encodes the table with its cards in deck order.
func (t Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{
		SymbolsPerCard: t.size,
		SymbolCount:    t.symbols,
		Cards:          make([][]int, len(t.cards)),
	}
	for i, c := range t.cards {
		out.Cards[i] = c
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a table and validates it, so a hand-edited manifest
// cannot smuggle in a deck that breaks the shared-symbol invariant.
func (t *Table) UnmarshalJSON(data []byte) error {
	var in tableJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode deck table")
	}
	parsed := Table{size: in.SymbolsPerCard, symbols: in.SymbolCount, cards: make([]Card, len(in.Cards))}
	for i, c := range in.Cards {
		parsed.cards[i] = Card(c)
	}
	if err := parsed.Validate(); err != nil {
		return err
	}
	*t = parsed
	return nil
}
