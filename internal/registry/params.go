package registry

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/robotsim/internal/core"
)

// Params holds the numeric construction parameters of a kind, as written in
// a scenario file.
type Params map[string]float64

// Float returns the named parameter, or def when it is absent.
func (p Params) Float(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Check rejects parameters outside allowed and non-finite values.
func (p Params) Check(allowed ...string) error {
	known := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		known[k] = true
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !known[k] {
			return fmt.Errorf("unknown parameter %q", k)
		}
		if !core.Finite(p[k]) {
			return fmt.Errorf("parameter %q must be finite", k)
		}
	}
	return nil
}
