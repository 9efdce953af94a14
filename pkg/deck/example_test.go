package deck_test

import (
	"fmt"

	"github.com/matzehuels/spotdeck/pkg/deck"
)

func ExampleGenerate() {
	t, err := deck.Generate(3)
	if err != nil {
		panic(err)
	}
	for i, c := range t.Cards() {
		fmt.Println(i, c)
	}
	// Output:
	// 0 [0 1 2]
	// 1 [0 3 4]
	// 2 [0 5 6]
	// 3 [1 3 5]
	// 4 [1 4 6]
	// 5 [2 3 6]
	// 6 [2 4 5]
}

func ExampleTable_Shared() {
	t, _ := deck.Generate(8)
	s, ok := t.Shared(0, 1)
	fmt.Println(t, s, ok)
	// Output:
	// 57 cards × 8 symbols 0 true
}
