// Package output provides deterministic ordering and encoding for
// dependency tree reports.
//
// Identical trees must produce byte-identical JSON so that results can be
// diffed between runs and compared in tests.
//
// # Ordering
//
//   - cycles: severity DESC → member count DESC → path ASC
//   - clusters: kind priority → cohesion DESC → id ASC
//   - similarities: score DESC → nodeA ASC → nodeB ASC
//
// # JSON Encoding Rules
//
// DeterministicEncode and DeterministicEncodeIndented:
//
//  1. Object keys are sorted alphabetically, including map keys that are
//     not strings.
//  2. Floats are rounded to at most 6 decimal places.
//  3. Nil pointers, nil slices and nil maps are omitted; empty slices stay [].
//  4. Values implementing json.Marshaler (time.Time) keep their encoding.
//
// # Snapshots
//
// CompareSnapshots compares two encoded trees while ignoring the fields that
// change on every build (build id, generation time, file timestamps).
package output
