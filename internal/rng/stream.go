// Package rng provides the seeded Lehmer stream every simulation draw comes from.
//
// The step is computed in integer arithmetic so a seed yields the same sequence
// on every platform. Streams are not safe for concurrent use; each run owns one.
package rng

import "math"

const (
	// Modulus is the Mersenne prime 2^31 - 1.
	Modulus int64 = 2147483647
	// Multiplier is the MINSTD multiplier.
	Multiplier int64 = 48271
)

type Stream struct {
	state int64
}

// New seeds a stream from any finite number: the state is |floor(seed)| mod
// Modulus, and a zero state is remapped to 1.
func New(seed float64) *Stream {
	s := math.Mod(math.Abs(math.Floor(seed)), float64(Modulus))
	state := int64(s)
	if state == 0 {
		state = 1
	}
	return &Stream{state: state}
}

// State returns the current internal state.
func (s *Stream) State() int64 {
	return s.state
}

// Next advances the stream and returns a float in [0, 1).
func (s *Stream) Next() float64 {
	s.state = s.state * Multiplier % Modulus
	return float64(s.state) / float64(Modulus)
}

// NextInt returns floor(Next()*bound). Callers pass bound >= 1.
func (s *Stream) NextInt(bound int) int {
	return int(math.Floor(s.Next() * float64(bound)))
}

// Pick returns a uniformly drawn element of items, consuming one draw.
func Pick[T any](s *Stream, items []T) T {
	return items[s.NextInt(len(items))]
}
