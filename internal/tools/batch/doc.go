// Package batch runs one tool operation over several items, such as
// reserving the same desk on a list of dates.
//
// This package includes helpers for:
//   - Parsing parameters that accept both single values and arrays
//   - Running an operation per item without stopping on failures
//   - Formatting the per-item outcomes as a JSON summary
package batch
