package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixContainer       = "ctr"
	PrefixLayer           = "layer"
	PrefixPoint           = "pt"
	PrefixLine            = "line"
	PrefixRectangle       = "rect"
	PrefixEllipse         = "ell"
	PrefixArc             = "arc"
	PrefixCubicBezier     = "cbez"
	PrefixQuadraticBezier = "qbez"
	PrefixText            = "text"
	PrefixImage           = "img"
	PrefixPath            = "path"
	PrefixGroup           = "grp"
	PrefixSession         = "sess"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewContainerID() string { return New(PrefixContainer) }
func NewLayerID() string     { return New(PrefixLayer) }
func NewSessionID() string   { return New(PrefixSession) }

// Prefix returns the type prefix of a well-formed id.
func Prefix(id string) (string, error) {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	return parsed.Prefix(), nil
}

func Validate(id, expectedPrefix string) error {
	prefix, err := Prefix(id)
	if err != nil {
		return err
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, prefix, id)
	}
	return nil
}
