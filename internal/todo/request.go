package todo

import (
	"strings"

	"github.com/deppfellow/todos/internal/validation"
)

// Client-facing validation messages.
const (
	MsgDescriptionRequired = "Description is required and cannot be empty."
	MsgDescriptionTooLong  = "Description cannot exceed 500 characters."
	MsgInvalidID           = "Invalid todo ID format."
)

var descriptionMessages = validation.Messages{
	FieldDescription + ".required": MsgDescriptionRequired,
	FieldDescription + ".max":      MsgDescriptionTooLong,
}

// ListRequest carries no input.
type ListRequest struct{}

func (r *ListRequest) Bodyless() {}

func (r *ListRequest) Validate() error { return nil }

// CreateRequest is the body of POST /todos.
type CreateRequest struct {
	Description string `json:"description" validate:"required,max=500"`
}

// Validate trims the description and checks it.
func (r *CreateRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	return validation.Struct(r, descriptionMessages)
}

// UpdateRequest is PUT /todos/:id.
type UpdateRequest struct {
	RawID       string `param:"id" json:"-"`
	Description string `json:"description" validate:"required,max=500"`

	ID ID `json:"-"`
}

// ValidatePath parses the id.
func (r *UpdateRequest) ValidatePath() error {
	id, err := parseRequestID(r.RawID)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// Validate checks the id, then trims and checks the description.
func (r *UpdateRequest) Validate() error {
	if err := r.ValidatePath(); err != nil {
		return err
	}
	r.Description = strings.TrimSpace(r.Description)
	return validation.Struct(r, descriptionMessages)
}

// DeleteRequest is DELETE /todos/:id.
type DeleteRequest struct {
	RawID string `param:"id" json:"-"`

	ID ID `json:"-"`
}

func (r *DeleteRequest) Bodyless() {}

func (r *DeleteRequest) ValidatePath() error {
	id, err := parseRequestID(r.RawID)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (r *DeleteRequest) Validate() error {
	return r.ValidatePath()
}

func parseRequestID(raw string) (ID, error) {
	id, err := ParseID(raw)
	if err != nil {
		return ID{}, validation.Fail("id", MsgInvalidID)
	}
	return id, nil
}
