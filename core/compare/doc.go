// Package compare computes field-level diffs for one entity across two
// snapshots of the two disagreeing source systems (GDOS and Zesty).
//
// # Algorithm
//
// For each entry in the field definition table the comparator extracts four
// raw values (GDOS/Zesty x older/newer snapshot) via dotted-path traversal,
// normalizes them field-aware, and flags a side as changed when its normalized
// values differ between the snapshots. Two absent values compare equal: both
// missing means no change, not a conflict.
//
// A field needs review only when a changed side still carries a value in the
// newer snapshot; a value-to-absent transition remains visible as a change but
// is not surfaced in the recommendation, because there is nothing to fix
// forward.
//
// # Caching
//
// Results are memoized by string-normalized entity id. The cache is never
// expired automatically; the snapshot-owning service clears it explicitly
// after every successful load, which keeps comparisons consistent with the
// records they were computed from.
package compare
