// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package randsrc provides the random values fed to the demo queue.
//
// A Source is seeded once, explicitly, by the program entry point and then
// handed to every worker. Nothing in this package touches randomness at
// import time.
package randsrc

import (
	"math/rand"
	"sync"
	"time"

	"github.com/jaswdr/faker"
)

// Source draws integers uniformly from [0, Max]. Safe for concurrent use.
type Source struct {
	mu    sync.Mutex
	faker faker.Faker
	max   int
	seed  int64
}

// New creates a Source seeded with seed that draws from [0, max].
// A seed of 0 selects a clock-based seed; Seed reports the one in effect.
func New(seed int64, max int) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if max < 0 {
		max = 0
	}
	return &Source{
		faker: faker.NewWithSeed(rand.NewSource(seed)),
		max:   max,
		seed:  seed,
	}
}

// Next returns the next value.
func (s *Source) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.IntBetween(0, s.max)
}

// Values returns the next n values in order.
func (s *Source) Values(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, n)
	for i := range out {
		out[i] = s.faker.IntBetween(0, s.max)
	}
	return out
}

// Max returns the inclusive upper bound.
func (s *Source) Max() int { return s.max }

// Seed returns the seed in effect, for reproducing a run.
func (s *Source) Seed() int64 { return s.seed }
