// Package viz draws trusses and result tables in the terminal.
//
//   - [Canvas]: braille sub-pixel canvas with a tone per cell
//   - [RenderTruss]: members colored by tension or compression, supports
//     and load strokes
//   - [ResultTables]: node and member tables styled with lipgloss
//
// Colors come from the current [Theme]; see [SetTheme].
package viz
