// Package repository defines the data access interfaces for the Archimap
// model library.
//
// This package provides the repository abstraction for persisting and
// retrieving saved model snapshots. The actual implementation is in the
// sqlite subpackage.
//
// # Snapshot Store
//
// The Repository interface stores whole-model snapshots: the working model
// stays an in-memory value mutated through the service layer, and the store
// holds named, durable copies that can be listed and reopened later.
//
// # SQLite Implementation
//
// The sqlite implementation uses WAL mode and serializes the model payload
// as JSON alongside indexed id/name/version columns. The schema migrates
// automatically on startup.
package repository
