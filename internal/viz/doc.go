// Package viz holds the presentation helpers around the rain engine.
//
//   - [Theme]: head, trail and chrome colours; trail colours are blended in
//     Lab space from the theme's base hue
//   - [RenderGrid] and [RenderFrame]: draw a frame as styled or plain text
//   - [RunMenu]: a Bubble Tea preset picker with a live preview of each preset
//
// # Key Bindings
//
//	j/k   - Move between presets
//	Enter - Run the highlighted preset
//	q/Esc - Quit without choosing
package viz
