package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidInput reports a menu selection that is not an integer within
// the accepted range.
var ErrInvalidInput = errors.New("invalid input")

// ParseChoice parses input as an integer in [lo, hi].
func ParseChoice(input string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, input)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: %d outside %d..%d", ErrInvalidInput, n, lo, hi)
	}
	return n, nil
}
