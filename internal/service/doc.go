// Package service coordinates mutation of the working model.
//
// A single ModelService instance owns the in-memory model. Every operation
// the HTTP layer exposes runs through it: codec-backed open/save, element
// and relationship mutation (gated by the legality rules), diagram editing,
// and the snapshot library. Operations publish events on an EventBus so the
// SSE hub and the audit log can observe changes without coupling to the
// service itself.
package service
