// Package core provides the shared types of the grid rendering engine.
//
// Everything a render pass reads or produces is declared here so the
// stores, the column service, the renderers and the terminal surface can
// exchange values without importing each other:
//
//   - Item: one visible row or column (absolute index, pixel start, size)
//   - Row and Column: the dataset record and its column descriptor
//   - SelectionRange and GroupingState: read-only state owned by stores
//   - CellModel and Props: ephemeral per-frame derived models
//
// Frames built from these types have no lifecycle beyond one render pass.
package core
