// Package pkg provides the core libraries for spotdeck, a generator for
// spot-it style card decks.
//
// # Overview
//
// A spotdeck deck has n²+n+1 cards with n+1 symbols each (n prime), and any
// two cards share exactly one symbol. The pkg directory is organized into
// three main areas:
//
//  1. Design and layout: [deck], [pack], [symbol]
//  2. Output: [render], [render/sink], [render/plane], [preprocess]
//  3. Orchestration and infrastructure: [pipeline], [cache], [errors], [observability]
//
// # Architecture
//
// The typical data flow through spotdeck:
//
//	symbol images (<index>_<name>.png)
//	         ↓
//	    [deck] package (which symbols go on which card)
//	         ↓
//	    [pack] package (rotate, scale and place each card's symbols)
//	         ↓
//	    [render] package (card faces, legend, card back)
//	         ↓
//	    card_<n>.png + manifest.json
//
// # Quick Start
//
// Design a deck and pack its first card:
//
//	import (
//	    "github.com/matzehuels/spotdeck/pkg/deck"
//	    "github.com/matzehuels/spotdeck/pkg/pack"
//	    "github.com/matzehuels/spotdeck/pkg/render"
//	    "github.com/matzehuels/spotdeck/pkg/symbol"
//	)
//
//	// 1. Design the deck
//	table, _ := deck.Generate(8)
//
//	// 2. Load the symbols
//	pool, _ := symbol.LoadDir("img_preprocessed")
//	symbols, _ := pool.Symbols(table.Card(0))
//
//	// 3. Pack the card
//	layout, _ := pack.Pack(symbols, pack.Options{}, pack.NewRand(42, 0))
//
//	// 4. Render it
//	img, _ := render.RenderCard(layout, symbols)
//
// # Main Packages
//
// [deck] - Projective-plane deck design. [deck.Table] is immutable and
// validated: every symbol appears on k cards, every two cards share one.
//
// [symbol] - Symbol images, their alpha footprints under rotation and
// scaling, and the symbol pool loaded from a directory.
//
// [pack] - Stochastic packing of one card: mutate one symbol, keep the change
// only if the symbol stays inside the circle and overlaps no other symbol.
//
// [render] - Card faces, legend sheets and the card back, drawn with gg and
// composited with imaging. [render/sink] writes PNG files and the deck
// manifest; [render/plane] draws the incidence graph with Graphviz.
//
// [preprocess] - Resizing and cropping of raw symbol artwork.
//
// [pipeline] - The complete design → load → pack → render pipeline with
// parallel packing and layout caching, used by the CLI.
//
// [cache] - Layout cache (file-backed, content-addressed keys).
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/pack/...      # Specific package
//	go test -run Example ./...  # Examples only
//
// [deck]: https://pkg.go.dev/github.com/matzehuels/spotdeck/pkg/deck
// [pack]: https://pkg.go.dev/github.com/matzehuels/spotdeck/pkg/pack
// [symbol]: https://pkg.go.dev/github.com/matzehuels/spotdeck/pkg/symbol
// [render]: https://pkg.go.dev/github.com/matzehuels/spotdeck/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/spotdeck/pkg/render/sink
// [render/plane]: https://pkg.go.dev/github.com/matzehuels/spotdeck/pkg/render/plane
// [preprocess]: https://pkg.go.dev/github.com/matzehuels/spotdeck/pkg/preprocess
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/spotdeck/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/spotdeck/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/spotdeck/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/spotdeck/pkg/observability
// [deck.Table]: https://pkg.go.dev/github.com/matzehuels/spotdeck/pkg/deck#Table
package pkg
