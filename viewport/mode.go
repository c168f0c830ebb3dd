package viewport

import "github.com/teranos/comex/errors"

// Mode selects which gestures the mouse drives. Zoom and lasso are mutually
// exclusive.
type Mode string

const (
	ModeZoom  Mode = "zoom"
	ModeLasso Mode = "lasso"
)

// ParseMode converts a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeZoom, ModeLasso:
		return Mode(s), nil
	}
	return "", errors.NewInvalidRequestError("unknown mouse mode %q", s)
}
