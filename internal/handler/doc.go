// Package handler implements HTTP request handlers for the model API.
//
// ModelHandler covers the working model lifecycle (new/open/save in either
// dialect), element and relationship mutation, diagram editing, rendering,
// the taxonomy and validation queries, and the snapshot library.
//
// All handlers follow REST conventions:
// - GET for retrieval
// - POST for creation
// - PUT for updates
// - DELETE for removal
//
// Errors are returned as JSON with an {error, details} structure; rejected
// relationships additionally carry the list of legal alternatives and use
// status 422.
//
// # Server-Sent Events
//
// The /events endpoint streams model change events via SSE, letting clients
// follow edits as they happen.
package handler
