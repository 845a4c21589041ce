package unosim

import (
	"fmt"
	"math/rand"
)

// ShuffleIntRange returns a random permutation of [start, end).
func ShuffleIntRange(rng *rand.Rand, start, end int) []int {
	if end < start {
		panic(fmt.Errorf("end < start (%d < %d)", end, start))
	}

	count := end - start

	slice := make([]int, count)

	for i := 0; i < count; i++ {
		slice[i] = start + i
	}

	for end := len(slice); end > 0; end-- {
		randomIndex := rng.Intn(end)
		slice[randomIndex], slice[end-1] = slice[end-1], slice[randomIndex]
	}

	return slice
}

// NewRand returns a source seeded with seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
