// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

// Package dist provides the random distributions used to generate benchmark text.
package dist

import (
	"math/rand"
)

// Continuous is a distribution over the reals that can be sampled.
type Continuous interface {
	Rand() float64
	CDF(x float64) float64
}

// Index turns a continuous distribution into one over the integers [0, N).  Samples outside that range are
// redrawn, so the distribution is the continuous one conditioned on landing in range.
type Index struct {
	Dist Continuous
	N    int
}

// Rand draws an index.
func (ix Index) Rand() int {
	for {
		x := ix.Dist.Rand()
		if 0 <= x && x < float64(ix.N) {
			return int(x)
		}
	}
}

// Prob returns the probability of drawing i.
func (ix Index) Prob(i int) float64 {
	if i < 0 || i >= ix.N {
		return 0
	}
	total := ix.Dist.CDF(float64(ix.N)) - ix.Dist.CDF(0)
	return (ix.Dist.CDF(float64(i+1)) - ix.Dist.CDF(float64(i))) / total
}

// NewUniformIndex returns an index distribution giving each of [0, n) equal weight.
func NewUniformIndex(n int, source *rand.Rand) Index {
	return Index{Uniform{Min: 0, Max: float64(n), Source: source}, n}
}

// NewExponentialIndex returns an index distribution whose weights fall off geometrically.  Index 0 is about
// e^skew times as likely as index n-1.  A skew that is not positive gives the uniform distribution.
func NewExponentialIndex(n int, skew float64, source *rand.Rand) Index {
	if skew <= 0 {
		return NewUniformIndex(n, source)
	}
	return Index{Exponential{Rate: skew / float64(n), Source: source}, n}
}
