// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - FormatAdapter: Parses and serializes one page-builder dialect
//   - ConfigStore: Application configuration
//   - RunStore: Transform history persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TransformCache: Memoizes transform outcomes. Without it every request
//     runs the full pass.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or format package
package driven
