package engine

import (
	"math"

	"evogame/internal/model"
	"evogame/internal/rng"
)

const (
	arenaMargin = 25
	wallInset   = 10
	stepLength  = 4
	turnJitter  = 0.6
)

// place draws x, y and heading, in that order.
func place(stream *rng.Stream, arena model.Arena) model.Agent {
	return model.Agent{
		X:       arenaMargin + stream.Next()*(arena.Width-2*arenaMargin),
		Y:       arenaMargin + stream.Next()*(arena.Height-2*arenaMargin),
		Heading: stream.Next() * math.Pi * 2,
	}
}

// move turns the agent by one jitter draw, steps forward, reflects off the
// walls and clamps it inside the inset.
func move(stream *rng.Stream, a *model.Agent, arena model.Arena) {
	a.Heading += (stream.Next() - 0.5) * turnJitter
	a.X += math.Cos(a.Heading) * stepLength
	a.Y += math.Sin(a.Heading) * stepLength

	if a.X < wallInset || a.X > arena.Width-wallInset {
		a.Heading = math.Pi - a.Heading
	}
	if a.Y < wallInset || a.Y > arena.Height-wallInset {
		a.Heading = -a.Heading
	}
	a.X = math.Max(wallInset, math.Min(arena.Width-wallInset, a.X))
	a.Y = math.Max(wallInset, math.Min(arena.Height-wallInset, a.Y))
}
