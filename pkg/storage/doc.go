// Package storage defines the blob store contract shared by all
// backends, plus the lazy key iterator and an instrumentation
// decorator.
//
// Stores are long-lived handles, safe for concurrent use by
// independent callers. The consistency contract is deliberately weak:
// a Put observed through a different store handle (or a different
// process) may lag, mirroring object store semantics. Within one
// handle, Has reflects a completed Put.
//
// A KeyIterator obtained from Keys holds a listing cursor on its
// store handle. It is forward-only and single-pass: consume or
// abandon it before assuming the handle is free for a new listing.
package storage
