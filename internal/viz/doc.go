// Package viz provides the terminal front end of the simulator.
//
// The package implements two Bubble Tea programs:
//
//   - [Form]: destination and duration input with a modal error dialog
//   - [Player]: frame-by-frame trajectory animation on a braille [Canvas]
//
// # Key Bindings
//
// Form:
//
//	Tab/↑↓ - Move between fields
//	←/→    - Change destination
//	Enter  - Start (or dismiss an error)
//	Esc    - Quit
//
// Player:
//
//	T - Cycle color themes
//	Q - Close the animation
package viz
