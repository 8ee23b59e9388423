package dataset

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is returned when any of the source tables is missing,
// unreadable or malformed. It is fatal for the render of every page.
var ErrDataUnavailable = errors.New("data unavailable")

// unavailable wraps cause so that errors.Is(err, ErrDataUnavailable) holds
func unavailable(file string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrDataUnavailable, file, cause)
}
