// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package dist

import (
	"math"
	"math/rand"
	"testing"
)

const (
	randSeed = 0x5a025ca11825a5e7
	samples  = 100000
)

func histogram(ix Index) []int {
	counts := make([]int, ix.N)
	for i := 0; i < samples; i++ {
		k := ix.Rand()
		if k < 0 || k >= ix.N {
			panic("index out of range")
		}
		counts[k]++
	}
	return counts
}

func TestUniformIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(randSeed))
	ix := NewUniformIndex(26, rng)
	counts := histogram(ix)

	expect := float64(samples) / 26
	for i, count := range counts {
		if math.Abs(float64(count)-expect) > expect*0.1 {
			t.Errorf("index %d drawn %d times, expected about %.0f", i, count, expect)
		}
		if p := ix.Prob(i); math.Abs(p-1.0/26) > 1e-12 {
			t.Errorf("Prob(%d) = %v", i, p)
		}
	}
}

func TestExponentialIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(randSeed))
	ix := NewExponentialIndex(26, 4, rng)
	counts := histogram(ix)

	if counts[0] <= counts[25]*10 {
		t.Errorf("not skewed: first %d, last %d", counts[0], counts[25])
	}

	var total float64
	for i := 0; i < ix.N; i++ {
		p := ix.Prob(i)
		total += p
		got := float64(counts[i]) / samples
		if math.Abs(got-p) > 0.01 {
			t.Errorf("index %d frequency %.4f, expected %.4f", i, got, p)
		}
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("probabilities sum to %v", total)
	}
}

func TestExponentialNoSkew(t *testing.T) {
	ix := NewExponentialIndex(4, 0, rand.New(rand.NewSource(1)))
	if _, ok := ix.Dist.(Uniform); !ok {
		t.Fatalf("zero skew gave %T", ix.Dist)
	}
}

func TestCDF(t *testing.T) {
	u := Uniform{Min: 2, Max: 4}
	if u.CDF(1) != 0 || u.CDF(3) != 0.5 || u.CDF(5) != 1 {
		t.Errorf("uniform CDF wrong")
	}

	e := Exponential{Rate: 2}
	if e.CDF(-1) != 0 || math.Abs(e.CDF(1)-(1-math.Exp(-2))) > 1e-12 {
		t.Errorf("exponential CDF wrong")
	}
}
