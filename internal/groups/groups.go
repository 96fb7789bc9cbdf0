// Package groups partitions a population into interaction groups.
package groups

import (
	"fmt"

	"evogame/internal/model"
	"evogame/internal/rng"
)

// Shuffle returns 0..n-1 permuted by a backward Fisher-Yates pass: for i from
// n-1 down to 1, swap i with NextInt(i+1). It consumes exactly n-1 draws.
func Shuffle(n int, stream *rng.Stream) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := stream.NextInt(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Form builds the round's groups. Whole-population mode returns one group in
// natural order without drawing; otherwise the shuffled indices are cut into
// contiguous chunks of size k and the last chunk may be shorter.
func Form(n int, size model.GroupSize, stream *rng.Stream) ([][]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if size.All {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return [][]int{all}, nil
	}
	if size.Size < 1 || size.Size > n {
		return nil, fmt.Errorf("group size must be in [1, %d]: %d", n, size.Size)
	}

	order := Shuffle(n, stream)
	out := make([][]int, 0, (n+size.Size-1)/size.Size)
	for start := 0; start < n; start += size.Size {
		end := min(start+size.Size, n)
		out = append(out, order[start:end:end])
	}
	return out, nil
}
