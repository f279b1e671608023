// Package queuecache maintains the priority-ordered work queue mirrored in
// the shared cache: lifecycle buckets as sorted sets, an overdue membership
// set, per-order snapshots, aggregate statistics, and advisory per-staff
// workload snapshots.
//
// The cache is a derived view over the authoritative record store. Every
// structure here expires on its own TTL and is reconstructible from the
// store, so a cache outage degrades freshness but never correctness.
// Mutating operations log cache failures and carry on.
package queuecache
