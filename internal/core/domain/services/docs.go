// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the scheduling system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - AssignmentScorer: A domain service that picks the best eligible staff member
//     for an order using multi-factor weighted scoring
//   - WorkloadTracker: A domain service that derives per-staff load versus capacity
//     from ground-truth assignment counts
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
