package todo

import (
	"fmt"
	"time"
)

// Format converts a persisted document into its JSON-safe representation.
//
//   - "_id" is rendered as its canonical string form.
//   - "created_at" is rendered as an ISO-8601 UTC timestamp when it holds a time.
//   - every other field is passed through unchanged.
//
// A nil document yields a nil representation. The input is never modified.
func Format(doc Document) Representation {
	if doc == nil {
		return nil
	}

	out := make(Representation, len(doc))
	for k, v := range doc {
		out[k] = v
	}

	if id, ok := out[FieldID]; ok {
		out[FieldID] = formatID(id)
	}

	if createdAt, ok := out[FieldCreatedAt].(time.Time); ok {
		out[FieldCreatedAt] = FormatTimestamp(createdAt)
	}

	return out
}

// FormatAll formats every document, preserving order. It never returns nil,
// so an empty collection renders as [] rather than null.
func FormatAll(docs []Document) []Representation {
	out := make([]Representation, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Format(doc))
	}
	return out
}

// FormatTimestamp renders t in UTC as RFC 3339 with sub-second precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatID(v any) string {
	switch id := v.(type) {
	case ID:
		return id.Hex()
	case string:
		return id
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}
