// Package render draws deck artwork: card faces, legend sheets and card
// backs.
//
// # Overview
//
// All renderers produce an [*image.NRGBA] so callers can encode them with
// the [sink] package or composite them further. Card faces and backs are
// discs on a transparent square canvas.
//
//   - [RenderCard] composites a validated [pack.Layout] onto a card face
//   - [RenderLegend] and [LegendSheets] lay out icon/name pairs in three
//     columns, one 19-symbol sheet per call
//   - [RenderBackside] draws the red card back with optional decorations
//
// Symbols are composited with exactly the transform used to compute their
// footprints ([symbol.Transform]), so what the packer validated is what
// ends up on the card.
//
//	img, err := render.RenderCard(layout, symbols, render.WithBorder(color.Black, 5))
//	data, err := sink.EncodePNG(img)
//
// # Incidence Diagrams
//
// The [plane] subpackage renders the card/symbol incidence structure of a
// deck as a Graphviz diagram.
//
// [sink]: github.com/matzehuels/spotdeck/pkg/render/sink
// [plane]: github.com/matzehuels/spotdeck/pkg/render/plane
package render
