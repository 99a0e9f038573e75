// Package fraud holds the settlement outcome policy. The simulator stands in
// for a real risk engine; it declines most payments on purpose.
package fraud

import "math/rand/v2"

// Policy decides whether a settlement attempt fails. Injectable so tests
// can force deterministic outcomes.
type Policy interface {
	ShouldFail() bool
}

// Simulator declines with a fixed probability.
type Simulator struct {
	declineRate float64
}

func NewSimulator(declineRate float64) *Simulator {
	return &Simulator{declineRate: declineRate}
}

func (s *Simulator) ShouldFail() bool {
	return rand.Float64() < s.declineRate
}
