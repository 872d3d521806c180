// Package state persists content overlays. A Store loads and saves one raw
// payload per Ref; it knows nothing about the document shape. Decoding,
// migration and reconciliation happen in the content package.
//
// Deterministic keys:
//
//	Ref.Identifier() yields "domain/key", e.g. "site/content". File and SQLite
//	stores use it verbatim as their storage key.
//
// Meta is storage-owned: Save fills SnapshotID (uuid), ETag (sha256 of the
// payload) and UpdatedAt. Writers are expected to be single-tenant; last write
// wins and ETags are informational.
package state
