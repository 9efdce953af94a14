// Package deck builds symbol-assignment tables for spot-the-match card decks.
//
// # Overview
//
// A deck is an ordered list of cards. Every card carries the same number of
// symbols k, and any two distinct cards share exactly one symbol. Such a deck
// is the incidence structure of a finite projective plane of order n = k-1:
// cards are lines, symbols are points.
//
// # Construction
//
// [Generate] uses the classic prime-order construction. Symbol 0 is the pivot
// shared by n+1 "pencil" cards, each completed with one block of n symbols.
// The remaining n² cards pair one symbol of the first block with one symbol
// from each of the other blocks, chosen by the affine map
//
//	base + n·m + ((i·m + j) mod n)
//
// for slope i, offset j and block m. The construction is only correct when n
// is prime, so Generate rejects any other order with an
// [errors.ErrCodeInvalidOrder] error instead of returning a broken table.
//
//	t, err := deck.Generate(8)   // 57 cards, 57 symbols
//	if err != nil {
//	    return err
//	}
//	shared, _ := t.Shared(0, 1)  // 0
//
// Output order is deterministic; card i of one run is card i of every run.
//
// [errors.ErrCodeInvalidOrder]: github.com/matzehuels/spotdeck/pkg/errors
package deck
