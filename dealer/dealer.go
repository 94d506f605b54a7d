//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package dealer implements the correlated-randomness helper. The
// helper serves the two compute parties with single-use material:
// one-hot selectors for the oblivious row fetch, Beaver triples for
// dot products, and Beaver-style triples for scalar-vector
// products. It never sees shares or queries, and it is stateless
// across queries.
package dealer

import (
	"fmt"

	"github.com/markkurossi/secrec"
	"github.com/markkurossi/secrec/p2p"
	"github.com/markkurossi/secrec/share"
)

// Selector is the masked one-hot selector material for one oblivious
// row fetch over an item domain of size n. The parties reconstruct
// the rotation amount from their offsets and rotate the selector
// shares so that they sum to the one-hot vector of the secret index.
type Selector struct {
	Offset0 int64
	Offset1 int64
	Shares0 share.Vector
	Shares1 share.Vector
}

// NewSelector creates selector material for a domain of n items.
func NewSelector(n int) *Selector {
	index := int64(share.RandUint32() % uint32(n))

	oneHot := make(share.Vector, n)
	oneHot[index] = 1

	shares0 := make(share.Vector, n)
	for i := range shares0 {
		shares0[i] = share.RandInt8()
	}
	shares1 := oneHot.Sub(shares0)

	mask := share.RandInt8()

	return &Selector{
		Offset0: mask,
		Offset1: index - mask,
		Shares0: shares0,
		Shares1: shares1,
	}
}

func (sel *Selector) send(p0, p1 *p2p.Conn) error {
	if err := p0.SendInt64(sel.Offset0); err != nil {
		return err
	}
	if err := p0.SendVector(sel.Shares0); err != nil {
		return err
	}
	if err := p1.SendInt64(sel.Offset1); err != nil {
		return err
	}
	return p1.SendVector(sel.Shares1)
}

// DotTriple is a Beaver triple for a dot product of the argument
// length: random vector shares X, Y and shares of <X, Y>.
type DotTriple struct {
	X0 share.Vector
	Y0 share.Vector
	C0 int64
	X1 share.Vector
	Y1 share.Vector
	C1 int64
}

// NewDotTriple creates a dot product triple for vectors of the
// argument length.
func NewDotTriple(length int) *DotTriple {
	t := &DotTriple{
		X0: make(share.Vector, length),
		Y0: make(share.Vector, length),
		X1: make(share.Vector, length),
		Y1: make(share.Vector, length),
	}
	for i := 0; i < length; i++ {
		t.X0[i] = share.RandInt8()
		t.Y0[i] = share.RandInt8()
		t.X1[i] = share.RandInt8()
		t.Y1[i] = share.RandInt8()
	}

	// C0 + C1 = <X0,Y1> + <X1,Y0>; together with the locally
	// computable cross terms the parties reconstruct <X,Y>.
	mask := share.RandInt8()
	t.C0 = t.X0.Dot(t.Y1) + mask
	t.C1 = t.X1.Dot(t.Y0) - mask

	return t
}

func (t *DotTriple) send(p0, p1 *p2p.Conn) error {
	if err := p0.SendVector(t.X0); err != nil {
		return err
	}
	if err := p0.SendVector(t.Y0); err != nil {
		return err
	}
	if err := p0.SendInt64(t.C0); err != nil {
		return err
	}
	if err := p1.SendVector(t.X1); err != nil {
		return err
	}
	if err := p1.SendVector(t.Y1); err != nil {
		return err
	}
	return p1.SendInt64(t.C1)
}

// ScalarVectorTriple is a Beaver-style triple for a scalar-vector
// product: scalar shares X, vector shares Y, and vector shares Z
// with Z0 + Z1 = X0*Y1 + X1*Y0.
type ScalarVectorTriple struct {
	X0 int64
	Y0 share.Vector
	Z0 share.Vector
	X1 int64
	Y1 share.Vector
	Z1 share.Vector
}

// NewScalarVectorTriple creates a scalar-vector product triple for
// vectors of the argument length.
func NewScalarVectorTriple(length int) *ScalarVectorTriple {
	t := &ScalarVectorTriple{
		X0: share.RandInt8(),
		X1: share.RandInt8(),
		Y0: make(share.Vector, length),
		Y1: make(share.Vector, length),
	}
	mask := make(share.Vector, length)
	for i := 0; i < length; i++ {
		t.Y0[i] = share.RandInt8()
		t.Y1[i] = share.RandInt8()
		mask[i] = share.RandInt8()
	}
	t.Z0 = t.Y0.ScalarMul(t.X1).Add(mask)
	t.Z1 = t.Y1.ScalarMul(t.X0).Sub(mask)

	return t
}

func (t *ScalarVectorTriple) send(p0, p1 *p2p.Conn) error {
	if err := p0.SendInt64(t.X0); err != nil {
		return err
	}
	if err := p0.SendVector(t.Y0); err != nil {
		return err
	}
	if err := p0.SendVector(t.Z0); err != nil {
		return err
	}
	if err := p1.SendInt64(t.X1); err != nil {
		return err
	}
	if err := p1.SendVector(t.Y1); err != nil {
		return err
	}
	return p1.SendVector(t.Z1)
}

// Serve streams the per-query correlated randomness to the two
// compute parties. The material for each query is emitted in the
// exact order the update engine consumes it: the row fetch selector,
// one length-n dot triple per feature, the length-k dot triple for
// the profile product, and the two length-k scalar-vector triples
// for the update steps.
func Serve(params secrec.Params, p0, p1 *p2p.Conn) error {
	n := params.NumItems
	k := params.FeatureDim

	for query := 0; query < params.NumQueries; query++ {
		if params.Verbose {
			fmt.Printf("P2: materials for query %d\n", query)
		}
		if err := NewSelector(n).send(p0, p1); err != nil {
			return err
		}
		for f := 0; f < k; f++ {
			if err := NewDotTriple(n).send(p0, p1); err != nil {
				return err
			}
		}
		if err := NewDotTriple(k).send(p0, p1); err != nil {
			return err
		}
		if err := NewScalarVectorTriple(k).send(p0, p1); err != nil {
			return err
		}
		if err := NewScalarVectorTriple(k).send(p0, p1); err != nil {
			return err
		}
		if err := p0.Flush(); err != nil {
			return err
		}
		if err := p1.Flush(); err != nil {
			return err
		}
	}
	return nil
}
