// Package domain defines the core domain types for the Archimap
// enterprise-architecture modeling system.
//
// This package contains the entities and value objects that make up an
// architecture model: elements, relationships, diagrams, folders, and the
// model that owns them.
//
// # Core Types
//
// Element represents a single architecture concept (an actor, a process, a
// data object, ...) typed by one of the closed taxonomy kinds.
//
// Relationship represents a typed edge between two elements, with
// kind-specific qualifiers for access and influence relationships.
//
// Diagram represents a positioned, visual projection of a subset of elements
// and relationships. Diagram objects reference elements, never own them, and
// may nest; diagram connections reference relationships and carry bendpoints.
//
// Folder organizes elements into a tagged tree. Relationships and diagrams
// are owned by the model directly and only appear inside folders when the
// hierarchical persistence format puts them there.
//
// # Mutation Operations
//
// The Model methods (AddElement, RemoveElement, RemoveRelationship, ...) keep
// the model's cross-references consistent: removing an element cascades to
// the relationships and diagram objects that reference it. They never check
// relationship legality; that is the validity package's job, invoked by the
// caller before construction.
//
// # Design Principles
//
// - Plain, independently constructible values: no process-wide state
// - No database or external dependencies beyond taxonomy typing
// - A Model is not thread-safe; callers serialize concurrent mutation
package domain
