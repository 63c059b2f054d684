// Package snapshot is the single durable persistence boundary for session
// state: a JSON mirror of the in-memory record under one Redis key, written
// on every mutation and read back on process start and before every access
// decision.
//
// # Design
//
// The wire schema is fixed by the storefront's existing clients:
//
//	{ "user": {id,name,email,role} | null,
//	  "token": string | null,
//	  "isAuthenticated": bool,
//	  "role": string | null }
//
// A missing key, malformed JSON, or an old schema all collapse to "no
// snapshot". Corrupted records are never repaired in place; callers discard
// them wholesale and force a re-login.
//
// # What this package must NOT do
//
//   - Interpret roles or enforce invariants. It moves bytes; the reconciler
//     in the root package decides what to trust.
//   - Write anything besides the one snapshot key.
package snapshot
