// Package stewardship implements the global owner singleton inside the
// identity-access context.
//
// The module owns the two-phase ownership handover (transfer then accept)
// and answers the owner predicate other modules use as their authority
// fallback. Owner state is a single serialization domain, separate from any
// election's critical section.
package stewardship
