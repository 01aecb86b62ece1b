package domain

import (
	"errors"

	"github.com/google/uuid"

	"archimap/internal/taxonomy"
)

// ErrNotFound is returned when a referenced file or id is absent.
var ErrNotFound = errors.New("not found")

// Property is a single key/value annotation on an element. Properties keep
// their insertion order.
type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Element represents a single architecture concept in the model.
type Element struct {
	ID            string               `json:"id"`
	Kind          taxonomy.ElementKind `json:"kind"`
	Name          string               `json:"name"`
	Documentation string               `json:"documentation,omitempty"`
	Properties    []Property           `json:"properties,omitempty"`
}

// NewElement creates an element with a generated id.
func NewElement(kind taxonomy.ElementKind, name string) *Element {
	return &Element{
		ID:   newID(),
		Kind: kind,
		Name: name,
	}
}

// SetProperty appends or updates a property, preserving order for existing
// keys.
func (e *Element) SetProperty(key, value string) {
	for i := range e.Properties {
		if e.Properties[i].Key == key {
			e.Properties[i].Value = value
			return
		}
	}
	e.Properties = append(e.Properties, Property{Key: key, Value: value})
}

// GetProperty returns a property value by key.
func (e *Element) GetProperty(key string) (string, bool) {
	for _, p := range e.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// newID generates an opaque unique id for model entities.
func newID() string {
	return "id-" + uuid.NewString()
}
