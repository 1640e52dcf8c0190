// Package electionengine implements the election ledger core inside the
// election-core context.
//
// The module owns the election lifecycle state machine, the per-election
// party registry, one-vote-per-identity ballot casting, and exactly-once
// winner resolution. Commands touching the same election are serialized
// through a keyed lock with a bounded wait; business rules live in the
// domain and application layers and infrastructure stays behind ports.
package electionengine
