// Package model defines the provider‑agnostic abstractions and concrete
// helpers for generating panelist replies inside PanelMesh.
//
// Core goals:
//   - One blocking Generate call per panelist turn; rounds are strictly
//     sequential so no streaming surface is needed
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic, Gemini) implement the Model interface
// from this package so higher layers (sequencer, moderator, engine) remain
// decoupled from vendor SDKs.
package model
