// Package viz is the terminal front end for sorting runs.
//
// A [Model] owns one session and steps its run on ticks paced by the
// driver, so the speed and weights decide how long each frame stays on
// screen. [Bars] mirrors the frames into per-bar display classes and
// [Narrator] keeps the one-line description under the chart.
//
// # Key Bindings
//
//	S/Enter - Start
//	R       - Reset after a completed run
//	N / D   - Random or default values
//	E       - Edit values
//	Tab     - Next algorithm
//	+/-     - Speed
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
//
// Controls that would change the dataset or algorithm are ignored while a
// run is in progress.
package viz
