package todo

import (
	"strings"
	"testing"

	"github.com/deppfellow/todos/internal/validation"
)

func TestCreateRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantErr     string
		wantTrimmed string
	}{
		{"trims surrounding whitespace", "  Buy milk \n", "", "Buy milk"},
		{"empty", "", MsgDescriptionRequired, ""},
		{"whitespace only", " \t\n ", MsgDescriptionRequired, ""},
		{"exactly max length", strings.Repeat("a", MaxDescriptionLength), "", strings.Repeat("a", MaxDescriptionLength)},
		{"max length after trim", "  " + strings.Repeat("a", MaxDescriptionLength) + "  ", "", strings.Repeat("a", MaxDescriptionLength)},
		{"over max length", strings.Repeat("a", MaxDescriptionLength+1), MsgDescriptionTooLong, ""},
		{"multibyte counts characters", strings.Repeat("é", MaxDescriptionLength), "", strings.Repeat("é", MaxDescriptionLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &CreateRequest{Description: tt.description}
			err := req.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				if req.Description != tt.wantTrimmed {
					t.Fatalf("Description = %q, want %q", req.Description, tt.wantTrimmed)
				}
				return
			}

			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateRequest_ChecksIDFirst(t *testing.T) {
	req := &UpdateRequest{RawID: "not-an-id", Description: ""}

	err := req.Validate()
	if err == nil || err.Error() != MsgInvalidID {
		t.Fatalf("Validate() error = %v, want %q", err, MsgInvalidID)
	}
}

func TestUpdateRequest_ParsesID(t *testing.T) {
	req := &UpdateRequest{RawID: "65a1b2c3d4e5f60718293a4b", Description: " new "}

	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if req.ID.Hex() != "65a1b2c3d4e5f60718293a4b" {
		t.Fatalf("ID = %s", req.ID.Hex())
	}
	if req.Description != "new" {
		t.Fatalf("Description = %q", req.Description)
	}
}

func TestDeleteRequest_Validate(t *testing.T) {
	for _, raw := range []string{"", "123", "65a1b2c3d4e5f60718293a4", "zza1b2c3d4e5f60718293a4b"} {
		req := &DeleteRequest{RawID: raw}
		if err := req.Validate(); err == nil || err.Error() != MsgInvalidID {
			t.Errorf("Validate(%q) error = %v, want %q", raw, err, MsgInvalidID)
		}
	}

	req := &DeleteRequest{RawID: "65a1b2c3d4e5f60718293a4b"}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestBodylessRequests(t *testing.T) {
	var (
		_ validation.Bodyless = (*ListRequest)(nil)
		_ validation.Bodyless = (*DeleteRequest)(nil)
	)

	for _, req := range []validation.Validatable{&CreateRequest{}, &UpdateRequest{}} {
		if _, ok := req.(validation.Bodyless); ok {
			t.Errorf("%T must read its body", req)
		}
	}
}
