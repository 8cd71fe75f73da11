package document

import (
	"fmt"
	"strings"

	"github.com/adcondev/wps-print/internal/printerrors"
)

// Orientation of the printed page
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// ParseOrientation accepts "portrait" or "landscape" in any case; empty means Portrait.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "portrait":
		return Portrait, nil
	case "landscape":
		return Landscape, nil
	default:
		return Portrait, fmt.Errorf("%w: unknown orientation %q (use portrait or landscape)", printerrors.ErrValidation, s)
	}
}
