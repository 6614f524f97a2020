// Package writer implements batch writers for collected data.
//
// Writers:
//   - Tick writer (raw stream frames)
//   - Gas writer (gas estimate samples)
//
// All writers use append-only semantics (never update, only insert).
package writer
