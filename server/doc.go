// Package server exposes the panel engine over HTTP.
//
// Every operation is available as plain JSON; Start and Continue
// additionally stream as Server-Sent Events when the request carries
// "stream": true. Streaming rides the engine's observer seam, so events are
// written persona-by-persona on the handler's own goroutine, in panel
// order, with no channels or extra goroutines.
//
// Engine errors map onto status codes by type: ValidationError is 400,
// NotFoundError is 404, anything else is 500.
package server
