// Package staff provides domain entities for venue employees who receive
// order assignments.
//
// The package includes:
//   - StaffMember: The aggregate root managing identity, duty state, and device binding
//   - Role: A value object deriving capacity class, skill coverage, and manager tier
//
// Capacity is a pure function of the role and is never persisted, so workload
// figures computed against it can always be trusted over cached copies.
package staff
