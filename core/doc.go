// Package core provides the foundational domain types and interfaces used by
// PanelMesh. It defines the core abstractions for:
//
//   - Panel sessions (append-only discussion history with TTL lifecycle)
//   - Exchanges (immutable records of one full round of persona responses)
//   - Personas and panel configurations (registry-backed behavior profiles)
//   - Moods (the five-member vocabulary responses are classified into)
//   - The error taxonomy (validation, not-found, provider failure)
//   - Pluggable stores and registries consumed by the orchestration engine
//
// The package intentionally keeps implementation concerns (storage, model
// providers, HTTP transport, the engine itself) out of scope, exposing small
// interfaces to enable custom backends and extensions. All exported
// identifiers include concise documentation to aid discoverability and
// external consumption.
package core
