// Package rain implements the digital rain simulation and its double-buffered
// rendering pipeline.
//
// The package is organised leaves first:
//
//   - [Pixel]: a glyph plus its [Attribute] (Head, Trail or Blank)
//   - [Grid]: a fixed rows × cols frame of pixels
//   - [BufferPair]: the front/back grid pair and the swap lock
//   - [Glyphs]: the seeded glyph and delay source
//   - [Column]: the per-column Idle/Falling state machine
//   - [Simulation]: one producer pass over every column
//   - [Engine]: owns the update and render workers
//
// # Example
//
//	eng, err := rain.New(rain.DefaultOptions(rows, cols), screen)
//	if err != nil {
//		return err
//	}
//	if err := eng.Start(ctx); err != nil {
//		return err
//	}
//	defer eng.Close()
//
// # Thread Safety
//
// Engine methods are safe to call from the owning goroutine while the workers
// run. Simulation, Grid and Glyphs are NOT thread-safe; the engine confines
// them to the update worker.
package rain
