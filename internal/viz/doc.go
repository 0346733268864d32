// Package viz renders a cloth simulation in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live viewer that steps a [cloth.Simulation] every frame
//   - [Canvas]: braille raster for the wireframe, with marked nodes for
//     pinned and held particles
//   - [Camera]: perspective camera that doubles as the simulation's
//     [cloth.Projector], so mouse picks line up with the drawing
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the cloth
//	P F N - Placement, drape form, pinning
//	M     - Toggle rotate/drag interaction
//	X Y   - Rotate (rotate mode only)
//	Tab   - Select parameter, Up/Down adjust, E enable
//	V     - Show shear and bending links
//	T     - Cycle fabric themes (linen, denim, silk, chalk)
//	?     - Show help overlay
//
// # Dragging
//
// In drag mode a left click picks the nearest particle within
// [cloth.SelectRadius] sub-pixels, motion drags it and release flicks it
// with the pointer's last velocity.
//
// # Colours
//
// A [Theme] gives each constraint category its own colour, marks pinned
// nodes, and shows the strongest cell stress as tension or compression.
// The default linen theme uses the SVG export's palette.
package viz
