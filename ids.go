package quill

import (
	"fmt"

	"github.com/google/uuid"
	"go.jetify.com/typeid/v2"
)

// Shape id prefixes.
const (
	PrefixRect    = "rect"
	PrefixEllipse = "ellipse"
	PrefixText    = "text"
	PrefixPath    = "path"
	PrefixImage   = "image"
	PrefixFrame   = "frame"
)

var kindPrefixes = map[ShapeKind]string{
	ShapeRect:    PrefixRect,
	ShapeEllipse: PrefixEllipse,
	ShapeText:    PrefixText,
	ShapePath:    PrefixPath,
	ShapeImage:   PrefixImage,
	ShapeFrame:   PrefixFrame,
}

// NewShapeID returns a fresh type-prefixed id such as "rect_01h...".
func NewShapeID(kind ShapeKind) string {
	prefix, ok := kindPrefixes[kind]
	if !ok {
		prefix = PrefixRect
	}
	return typeid.MustGenerate(prefix).String()
}

// ValidateShapeID checks that id is a well-formed typeid with the prefix of
// kind.
func ValidateShapeID(id string, kind ShapeKind) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid shape id %q: %w", id, err)
	}
	if want := kindPrefixes[kind]; parsed.Prefix() != want {
		return fmt.Errorf("expected prefix %q but got %q in id %q", want, parsed.Prefix(), id)
	}
	return nil
}

// newGestureID returns a random id for one gesture transaction.
func newGestureID() string {
	return uuid.NewString()
}
