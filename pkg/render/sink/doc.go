// Package sink writes rendered deck artwork and metadata to bytes or disk.
//
// # PNG
//
// [EncodePNG] and [WritePNG] encode any image through imaging, with an
// optional compression level:
//
//	data, err := sink.EncodePNG(card, sink.WithCompression(png.BestCompression))
//	err = sink.WritePNG("out/card_1.png", card)
//
// # Manifest
//
// A [Manifest] records everything needed to reproduce or audit a run: a
// unique run id, the seed, the deck table and, per card, the symbols, the
// final layout and the file it was written to. It is written next to the
// cards as manifest.json.
//
//	m := sink.NewManifest(seed, table)
//	m.AddCard(sink.CardEntry{Index: 0, File: "card_1.png", Symbols: card, Layout: layout})
//	err := sink.WriteManifest("out/manifest.json", m)
package sink
