// Package randutil builds the seeded generators used to pick computer moves.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Both PCG
// words are derived here so every caller gets the same sequence for the
// same seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(u), splitmix(u+goldenRatio64)))
}

// FromFlag resolves an optional seed. A nil seed is replaced with the
// current time; the seed actually used is returned so it can be logged and
// the session replayed.
func FromFlag(seed *int64) (int64, *rand.Rand) {
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	return s, New(s)
}

// Derive returns a child generator for the n-th session of a seeded server,
// so concurrent sessions never share a *rand.Rand.
func Derive(seed int64, n uint64) *rand.Rand {
	return New(int64(splitmix(uint64(seed) ^ (n * goldenRatio64))))
}

func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
