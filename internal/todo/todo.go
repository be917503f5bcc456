// Package todo defines the todo document as it lives in the document store,
// and the pure transformation that turns it into its JSON-safe representation.
//
// Documents are kept as open field maps (like a BSON document) so fields
// written by other tools survive a round trip through the API untouched.
package todo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field names of a todo document.
const (
	FieldID          = "_id"
	FieldDescription = "description"
	FieldCreatedAt   = "created_at"
	FieldCompleted   = "completed"
)

// MaxDescriptionLength is the maximum description length in characters,
// measured after surrounding whitespace is trimmed.
const MaxDescriptionLength = 500

// ID is the opaque identifier assigned by the store on insert.
type ID = primitive.ObjectID

// Document is a persisted todo, keyed by field name.
type Document map[string]any

// Representation is the JSON-safe form of a Document returned to clients.
type Representation map[string]any

// ParseID parses the canonical string form of an ID (24 hex characters).
func ParseID(s string) (ID, error) {
	return primitive.ObjectIDFromHex(s)
}

// NewDocument builds the document inserted by the create operation.
// The id is left out: it is assigned by the store.
func NewDocument(description string, now time.Time) Document {
	return Document{
		FieldDescription: description,
		FieldCreatedAt:   now.UTC(),
		FieldCompleted:   false,
	}
}

// ID returns the document's identifier, if it carries one.
func (d Document) ID() (ID, bool) {
	id, ok := d[FieldID].(ID)
	return id, ok
}
