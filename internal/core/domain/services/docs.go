// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the fulfillment system. It implements
// business rules that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - DispatchPolicy: candidate eligibility and the per-worker concurrency cap
//     for delivery job dispatch
package services
