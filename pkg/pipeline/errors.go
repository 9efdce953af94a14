package pipeline

import "fmt"

// CardError reports that one card of the deck could not be packed.
type CardError struct {
	Card    int   // 0-based card index
	Symbols []int // symbol indices on the card
	Err     error
}

func (e *CardError) Error() string {
	return fmt.Sprintf("card %d %v: %v", e.Card+1, e.Symbols, e.Err)
}

func (e *CardError) Unwrap() error { return e.Err }
