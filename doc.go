// Package portal implements the document core of the Pixel Portal
// pixel-art editor.
//
// # Overview
//
// portal is the headless engine behind Pixel Portal: the in-memory
// representation of a layered, animated raster image together with the
// machinery that mutates it. Any UI shell (desktop, web canvas, or the
// cmd/portal batch tool) drives the same core and produces identical
// pixel output.
//
// The core provides:
//   - Pixmap: a W×H RGBA8888 pixel buffer with straight-alpha compositing
//   - A deterministic nearest-neighbor rasterizer (brushes, lines,
//     rectangles, ellipses, flood fill, mirroring)
//   - Layers, layer stacks, frames, and keyed-frame playback resolution
//   - A selection region with union/subtract/intersect algebra
//   - A bounded, reversible command history with sub-rect snapshots
//   - Tool state machines consuming abstract pointer events
//   - Container, TIFF, PNG, and GIF serialization
//
// # Quick Start
//
//	import "github.com/gogpu/portal"
//
//	doc := portal.NewDocument(64, 64)
//	hist := portal.NewHistory(100)
//
//	layer := doc.Frames.Current().Layers.Active()
//	cmd := portal.NewDrawStroke(doc, layer,
//		[]image.Point{{X: 2, Y: 2}, {X: 7, Y: 7}},
//		portal.StrokeParams{Color: portal.Hex("#000000"), Width: 1, Brush: portal.BrushSquare})
//	hist.Push(cmd)
//
//	composite := doc.Render(0)
//
// # Determinism
//
// All drawing is nearest-neighbor on integer coordinates. Re-executing
// any command on an identical starting state reproduces identical
// pixels, byte for byte; tests rely on this.
//
// # Coordinate System
//
// Uses standard raster coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
package portal
