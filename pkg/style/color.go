package style

import (
	"github.com/muesli/termenv"
)

// ColorEnabled reports whether the terminal supports colored output.
// Respects NO_COLOR and dumb terminals via termenv's detection.
func ColorEnabled() bool {
	return termenv.ColorProfile() != termenv.Ascii && !termenv.EnvNoColor()
}
