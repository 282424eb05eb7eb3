// Package events fans generation progress out to interested handlers.
//
// The pipeline turns every scheduler progress callback into a ProgressEvent
// and hands it to an Emitter, which calls each registered Handler in
// registration order. Dispatch is synchronous, so handlers see events in the
// order they were produced and must return promptly.
//
// The primary components are:
// - ProgressEvent: one progress update for one video of a run
// - Handler: interface for components that consume progress events
// - Emitter: registry that dispatches events to handlers
package events
