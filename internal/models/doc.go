// Package models defines the in-memory table model and the domain entities for markx.
//
// The package contains three groups of types:
//
// 1. Tables: schema-less worksheet data
//   - [Cell] : an optional text value (empty spreadsheet cells are null)
//   - [Table] : a named worksheet with ordered columns, each a slice of cells
//   - [Workbook] : an ordered set of tables addressed by worksheet name
//
// 2. Catalog constants: the static Status → Category table and the well-known column names
//   - [Category] : one of the four groupings (看过, 听过, 玩过, 读过) and the statuses it rolls up
//   - [Kind] : movie, music, game or book
//
// 3. Persistent Entities: pipeline run history
//   - [Run] : one pipeline run with its cutoff date and outcome
//   - [RunExport] : one exported category CSV belonging to a run
//
// Column reads on a [Table] always report presence, so callers branch on a missing column instead of
// assuming a fixed schema.
package models
