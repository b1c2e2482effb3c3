// Package kicadxyrs extracts pick-and-place data (X, Y, rotation, side,
// type, size) from KiCad .kicad_pcb files and writes it as a flat
// placement file for assembly houses.
//
// The CLI lives in cmd/kicad-xyrs; this root package exposes the same
// pipeline as a Go API so that callers can embed extraction in their own
// tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named kicadxyrs:
//
//	import "github.com/kataras/kicad-xyrs" // package kicadxyrs
//
// # Quick start
//
//	result, err := kicadxyrs.Run(kicadxyrs.Options{
//	    BoardPath: "board.kicad_pcb",
//	    Format:    "macrofab",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	kicadxyrs.WriteFile("board.xyrs", result.Output)
//
// # Origins
//
// Coordinates are written relative to an origin chosen by [Options.Origin]:
// "drill" (the board's auxiliary axis origin), "center", "topleft",
// "topright", "bottomleft", "bottomright" (corners of the bounding box of
// the placed footprints), or "override:X,Y". When empty, each format picks
// its own default. The Y axis is inverted so that exported coordinates are
// Cartesian (Y up).
//
// # Excluded parts
//
// Footprints marked virtual, board-only, excluded from position files,
// excluded from the BOM, or do-not-place are left out of the output. Set
// [Options.KeepDNP] to keep do-not-place parts and mark them instead.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
package kicadxyrs
