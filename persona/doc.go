// Package persona implements the core.PersonaRegistry and core.ConfigRegistry
// contracts: an in-memory registry of persona behavior profiles and named
// panel configurations, with an optional moderator profile.
//
// The registry can be populated three ways, in any combination:
//
//   - Seed() installs the built-in persona set and panel configurations
//   - LoadFile / LoadDir read YAML definition files
//   - RegisterPersona / RegisterConfig add entries programmatically
//
// Watch layers fsnotify on top of LoadFile so definition files edited on disk
// are picked up without a restart. Watching is an explicit caller opt-in; the
// registry itself never spawns goroutines.
package persona
