//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package dpf

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
)

// This file implements a standalone DPF variant with 128-bit seeds
// expanded through SHA-256. It shares the tree algebra of Key but
// none of its code paths; the update protocol consumes only the
// compact Key form.

type seed128 [16]byte

// CorrectionWord128 is the public per-level component of a Key128.
type CorrectionWord128 struct {
	Seed      seed128
	FlagLeft  bool
	FlagRight bool
}

// Key128 is one party's key of the 128-bit seed variant.
type Key128 struct {
	SeedRoot seed128
	FlagRoot bool
	CW       []CorrectionWord128
	FinalCW  int64
	Sign     int32
}

// prg128 expands a 128-bit seed into two child seeds and two control
// flags. The child material is the SHA-256 digest of the seed; the
// flags come from a domain-separated second digest.
func prg128(seed seed128) (sLeft, sRight seed128, fLeft, fRight bool) {
	children := sha256.Sum256(seed[:])
	copy(sLeft[:], children[0:16])
	copy(sRight[:], children[16:32])

	var sep [17]byte
	copy(sep[:], seed[:])
	sep[16] = 1
	flags := sha256.Sum256(sep[:])
	fLeft = flags[0]&1 == 1
	fRight = flags[1]&1 == 1
	return
}

func (s seed128) xor(o seed128) seed128 {
	var result seed128
	for i := range s {
		result[i] = s[i] ^ o[i]
	}
	return result
}

// leafValue folds a leaf seed into the 64-bit output carrier.
func (s seed128) leafValue() int64 {
	return int64(binary.LittleEndian.Uint64(s[0:8]))
}

func randSeed128() seed128 {
	var s seed128
	_, err := rand.Read(s[:])
	if err != nil {
		panic(err)
	}
	return s
}

// GenerateKeys128 creates a 128-bit seed key pair sharing the point
// function with value beta at index alpha over [0, domain).
func GenerateKeys128(alpha uint64, beta int64, domain uint64) (
	*Key128, *Key128) {

	depth := Depth(domain)

	s0 := randSeed128()
	s1 := randSeed128()
	f0 := false
	f1 := true

	k0 := &Key128{SeedRoot: s0, FlagRoot: f0}
	k1 := &Key128{SeedRoot: s1, FlagRoot: f1}

	for i := 0; i < depth; i++ {
		s0L, s0R, f0L, f0R := prg128(s0)
		s1L, s1R, f1L, f1R := prg128(s1)

		pathBit := (alpha >> (depth - 1 - i)) & 1

		var cw CorrectionWord128
		var f0Next, f1Next bool

		if pathBit == 0 {
			cw.Seed = s0R.xor(s1R)
			cw.FlagRight = f0R != f1R
			cw.FlagLeft = !(f0L != f1L)
			s0, s1 = s0L, s1L
			f0Next, f1Next = f0L, f1L
		} else {
			cw.Seed = s0L.xor(s1L)
			cw.FlagLeft = f0L != f1L
			cw.FlagRight = !(f0R != f1R)
			s0, s1 = s0R, s1R
			f0Next, f1Next = f0R, f1R
		}

		onPathFlag := cw.FlagLeft
		if pathBit == 1 {
			onPathFlag = cw.FlagRight
		}
		if f0 {
			s0 = s0.xor(cw.Seed)
			f0Next = f0Next != onPathFlag
		}
		if f1 {
			s1 = s1.xor(cw.Seed)
			f1Next = f1Next != onPathFlag
		}
		f0, f1 = f0Next, f1Next

		k0.CW = append(k0.CW, cw)
		k1.CW = append(k1.CW, cw)
	}

	k0.Sign = leafSign(f0)
	k1.Sign = leafSign(f1)

	var mask [8]byte
	_, err := rand.Read(mask[:])
	if err != nil {
		panic(err)
	}
	r := int64(int32(binary.LittleEndian.Uint32(mask[:4])))

	k0.FinalCW = r + int64(k0.Sign)*s0.leafValue()
	k1.FinalCW = (beta - r) + int64(k1.Sign)*s1.leafValue()

	return k0, k1
}

// Patch returns a copy of the key with the final correction word
// replaced. Both parties must substitute the same value.
func (k *Key128) Patch(fcw int64) *Key128 {
	patched := *k
	patched.FinalCW = fcw
	return &patched
}

// Eval evaluates the key at the argument index.
func (k *Key128) Eval(index, domain uint64) int64 {
	depth := Depth(domain)

	seed := k.SeedRoot
	flag := k.FlagRoot

	for i := 0; i < depth; i++ {
		sLeft, sRight, fLeft, fRight := prg128(seed)

		var fNext bool
		var fcw bool
		if (index>>(depth-1-i))&1 == 0 {
			seed, fNext = sLeft, fLeft
			fcw = k.CW[i].FlagLeft
		} else {
			seed, fNext = sRight, fRight
			fcw = k.CW[i].FlagRight
		}
		if flag {
			seed = seed.xor(k.CW[i].Seed)
			fNext = fNext != fcw
		}
		flag = fNext
	}

	value := seed.leafValue()
	if flag {
		value += k.FinalCW
	}
	return value * int64(k.Sign)
}
