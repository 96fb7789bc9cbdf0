package evo

import (
	"evogame/internal/model"
	"evogame/internal/rng"
)

// SinglePointCrossover recombines two parents with probability Rate.
type SinglePointCrossover struct {
	Rate float64
}

func (SinglePointCrossover) Name() string {
	return "single_point"
}

// Apply consumes one decision draw. When it falls below Rate and the parents
// are longer than one symbol, one more draw picks the cut in [1, len-1] and the
// child is a[:cut]+b[cut:]. Otherwise the child is a.
func (c SinglePointCrossover) Apply(stream *rng.Stream, a, b model.Strategy) model.Strategy {
	if stream.Next() >= c.Rate {
		return a
	}
	return Splice(stream, a, b)
}

// Splice draws a cut position and joins a's prefix with b's suffix. Strategies
// of length <= 1 are returned unchanged without drawing.
func Splice(stream *rng.Stream, a, b model.Strategy) model.Strategy {
	if len(a) <= 1 {
		return a
	}
	cut := 1 + stream.NextInt(len(a)-1)
	return a[:cut] + b[cut:]
}

// BitFlipMutation flips each symbol independently with probability Rate.
type BitFlipMutation struct {
	Rate float64
}

func (BitFlipMutation) Name() string {
	return "bit_flip"
}

// Apply consumes exactly one draw per symbol, in position order.
func (m BitFlipMutation) Apply(stream *rng.Stream, s model.Strategy) model.Strategy {
	bits := []byte(s)
	for i, bit := range bits {
		if stream.Next() < m.Rate {
			if bit == '0' {
				bits[i] = '1'
			} else {
				bits[i] = '0'
			}
		}
	}
	return model.Strategy(bits)
}
