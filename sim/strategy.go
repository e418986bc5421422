package sim

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy is returned when a strategy name is not recognized.
var ErrUnknownStrategy = errors.New("unknown placement strategy")

// Strategy selects where a newly admitted process is placed.
// It is fixed for the lifetime of an AllocationEngine.
type Strategy string

const (
	FirstFit      Strategy = "first"
	BestFit       Strategy = "best"
	NextFit       Strategy = "next"
	WorstFit      Strategy = "worst"
	NonContiguous Strategy = "noncontig"
)

// strategyAliases maps every accepted spelling to its canonical Strategy.
var strategyAliases = map[string]Strategy{
	"first":          FirstFit,
	"first-fit":      FirstFit,
	"best":           BestFit,
	"best-fit":       BestFit,
	"next":           NextFit,
	"next-fit":       NextFit,
	"worst":          WorstFit,
	"worst-fit":      WorstFit,
	"noncontig":      NonContiguous,
	"non-contiguous": NonContiguous,
}

// IsValidStrategy reports whether name is an accepted strategy spelling.
func IsValidStrategy(name string) bool {
	_, ok := strategyAliases[name]
	return ok
}

// ParseStrategy resolves a strategy name.
// Valid names: "first", "best", "next", "worst", "noncontig" and their
// hyphenated long forms ("first-fit", "non-contiguous", ...).
func ParseStrategy(name string) (Strategy, error) {
	s, ok := strategyAliases[name]
	if !ok {
		return "", fmt.Errorf("%w %q; valid: noncontig, first, best, next, worst", ErrUnknownStrategy, name)
	}
	return s, nil
}

// Contiguous reports whether the strategy places a process in a single extent.
func (s Strategy) Contiguous() bool {
	return s != NonContiguous
}

func (s Strategy) String() string {
	return string(s)
}
