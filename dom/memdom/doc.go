// Package memdom is an in-memory document tree with browser-like mutation
// observation.
//
// Structural changes under the body are queued as mutation records and
// handed to observers in one batch per Flush, the way a browser delivers
// them at a microtask checkpoint. Changes to detached subtrees are not
// recorded; inserting the subtree produces a single record.
package memdom
