//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package dpf

import (
	"math/rand"
	"testing"
)

func TestPRG128Determinism(t *testing.T) {
	seed := seed128{1, 2, 3, 4}
	sL0, sR0, fL0, fR0 := prg128(seed)
	sL1, sR1, fL1, fR1 := prg128(seed)
	if sL0 != sL1 || sR0 != sR1 || fL0 != fL1 || fR0 != fR1 {
		t.Fatalf("prg128 not deterministic")
	}
	if sL0 == sR0 {
		t.Fatalf("prg128 child seeds equal")
	}
}

func TestCorrectness128(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	domains := []uint64{2, 8, 50, 128}
	for _, domain := range domains {
		for round := 0; round < 10; round++ {
			alpha := rng.Uint64() % domain
			beta := int64(int32(rng.Uint32()))

			k0, k1 := GenerateKeys128(alpha, 0, domain)
			fcw := beta - (k0.FinalCW + k1.FinalCW)
			k0 = k0.Patch(fcw)
			k1 = k1.Patch(fcw)

			for x := uint64(0); x < domain; x++ {
				sum := k0.Eval(x, domain) + k1.Eval(x, domain)
				var expected int64
				if x == alpha {
					expected = beta
				}
				if sum != expected {
					t.Fatalf("domain %d, alpha %d: sum at %d: "+
						"got %d, expected %d",
						domain, alpha, x, sum, expected)
				}
			}
		}
	}
}

func TestPairInvariants128(t *testing.T) {
	k0, k1 := GenerateKeys128(9, 0, 64)

	if k0.FlagRoot == k1.FlagRoot {
		t.Errorf("root flags not complementary")
	}
	if k0.Sign != -k1.Sign {
		t.Errorf("signs not opposite: %d, %d", k0.Sign, k1.Sign)
	}
	if k0.SeedRoot == k1.SeedRoot {
		t.Errorf("root seeds equal")
	}
}
