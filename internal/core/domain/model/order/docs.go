// Package order provides domain entities and business logic for order management
// in the scheduling system. It implements the Order aggregate root with lifecycle
// management and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, properties, and lifecycle
//   - Status: A state machine that enforces valid order status transitions
//   - Item: A value object for single order lines
//
// Key business rules:
//   - Orders must have a valid unique identifier and at least one item
//   - Order status follows the defined workflow:
//     PENDING -> CONFIRMED -> PREPARING -> READY -> DELIVERED -> COMPLETED,
//     with CANCELLED reachable from every non-terminal status except DELIVERED
//   - COMPLETED and CANCELLED are terminal; terminal orders leave active tracking
//   - Priority can only rise, one step per escalation, capped at EMERGENCY
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
