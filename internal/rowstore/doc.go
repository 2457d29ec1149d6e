// Package rowstore provides the in-memory row store beneath the grid:
// keyed storage of rows with stable identities, streaming reads, a
// cached filtered view, and a validation-state cache.
//
// # Identity
//
// Every row is addressed by a cell.RowID assigned exactly once when the
// row first enters the store. IDs are creation-ordered and never reused,
// and rows are held in ascending-ID identity order - equal to insertion
// order for store-assigned IDs, with foreign IDs spliced in at their
// sort position - so positional reads survive sort, filter, and reorder
// in the layers above.
//
// # Concurrency model
//
//   - Structural mutations (Upsert, RemoveByIDs, ReplaceAll, ...) are
//     serialized by one store-scoped write lock.
//   - Reads run concurrently with each other and observe either a
//     pre-mutation or post-mutation snapshot, never a partial one.
//   - Stream takes one coherent snapshot at call time and paginates over
//     it without holding the lock, so long consumers never block writers.
//
// Compound multi-call operations (count, plan, mutate, cleanup) need
// more than the store lock can give; that coordination lives in
// package smartops.
//
// # Filtered view
//
// SetFilterCriteria builds a filter.Index synchronously and keeps it in
// step with structural mutations. Count(onlyFiltered=true) and
// MapFilteredIndexToOriginal are O(1) against that index. Stream
// evaluates its own predicates per call and does not cache across calls.
package rowstore
