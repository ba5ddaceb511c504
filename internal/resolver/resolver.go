// Package resolver picks the two endpoints named by a pair of search strings
// and decides which one should become the new default.
package resolver

import (
	"strings"

	"github.com/777genius/sinkswitch/internal/sink"
)

// Pair is the outcome of one resolution pass.
// A slot that matched nothing holds sink.Empty().
type Pair struct {
	A sink.Sink
	B sink.Sink
}

// Resolve matches needleA and needleB case-insensitively against endpoint names
// in a single pass over listing. Later matches overwrite earlier ones, and an
// endpoint that matches needleA is never considered for needleB.
func Resolve(listing []sink.Sink, needleA, needleB string) Pair {
	pair := Pair{A: sink.Empty(), B: sink.Empty()}

	lowerA := strings.ToLower(needleA)
	lowerB := strings.ToLower(needleB)

	for _, s := range listing {
		name := strings.ToLower(s.Name)
		if strings.Contains(name, lowerA) {
			pair.A = s
		} else if strings.Contains(name, lowerB) {
			pair.B = s
		}
	}

	return pair
}

// Choose returns the endpoint to make default: B when A is the current default, A otherwise.
// The result may be the empty sentinel; callers must not commit it.
func (p Pair) Choose(currentDefaultID string) sink.Sink {
	if currentDefaultID == p.A.ID {
		return p.B
	}
	return p.A
}

// Same reports whether both needles resolved to one endpoint
func (p Pair) Same() bool {
	return !p.A.IsEmpty() && p.A.SameEndpoint(p.B)
}
