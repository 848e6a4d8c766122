// Package session houses concrete implementations of the core.SessionStore.
// The interface itself (and the PanelSession struct) live in the core package
// to centralize domain contracts. Keeping only implementations here prevents
// higher level packages (discussion driver, engine) from depending on
// concrete storage.
//
// Add additional backends (Redis, Postgres, etc.) in sub-packages without
// changing any calling code; only the wiring layer needs to decide which
// implementation to instantiate. Note that the TTL sweep contract is
// caller-driven: no backend may run its own expiry goroutine.
package session
