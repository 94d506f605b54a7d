//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package dealer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/markkurossi/secrec"
	"github.com/markkurossi/secrec/p2p"
	"github.com/markkurossi/secrec/share"
)

// TestDotTriple verifies the dot product triple identity:
// C0 + C1 = <X0,Y1> + <X1,Y0>, which completes the Beaver
// reconstruction of <X,Y> from the parties' local cross terms.
func TestDotTriple(t *testing.T) {
	for round := 0; round < 100; round++ {
		triple := NewDotTriple(20)

		require.Equal(t,
			triple.X0.Dot(triple.Y1)+triple.X1.Dot(triple.Y0),
			triple.C0+triple.C1)
	}
}

func TestScalarVectorTriple(t *testing.T) {
	for round := 0; round < 100; round++ {
		triple := NewScalarVectorTriple(7)

		expected := triple.Y0.ScalarMul(triple.X1).
			Add(triple.Y1.ScalarMul(triple.X0))
		got := triple.Z0.Add(triple.Z1)
		require.Equal(t, expected, got)
	}
}

// TestSelector verifies that the selector shares sum to the one-hot
// vector of the index reconstructed from the offsets.
func TestSelector(t *testing.T) {
	const n = 50

	for round := 0; round < 100; round++ {
		sel := NewSelector(n)

		index := sel.Offset0 + sel.Offset1
		require.GreaterOrEqual(t, index, int64(0))
		require.Less(t, index, int64(n))

		oneHot := sel.Shares0.Add(sel.Shares1)
		for i, v := range oneHot {
			if int64(i) == index {
				require.Equal(t, int64(1), v)
			} else {
				require.Equal(t, int64(0), v)
			}
		}
	}
}

// TestServeOrder checks that Serve emits the per-query material in
// the consumption order of the update engine.
func TestServeOrder(t *testing.T) {
	params := secrec.NewParams()
	params.NumItems = 8
	params.FeatureDim = 2
	params.NumQueries = 3

	d0, c0 := p2p.Pipe()
	d1, c1 := p2p.Pipe()

	done := make(chan error)
	go func() {
		done <- Serve(params, d0, d1)
	}()

	readDot := func(c *p2p.Conn, length int) {
		x, err := c.ReceiveVector()
		require.NoError(t, err)
		require.Len(t, x, length)
		y, err := c.ReceiveVector()
		require.NoError(t, err)
		require.Len(t, y, length)
		_, err = c.ReceiveInt64()
		require.NoError(t, err)
	}
	readScalarVector := func(c *p2p.Conn, length int) {
		_, err := c.ReceiveInt64()
		require.NoError(t, err)
		y, err := c.ReceiveVector()
		require.NoError(t, err)
		require.Len(t, y, length)
		z, err := c.ReceiveVector()
		require.NoError(t, err)
		require.Len(t, z, length)
	}

	for query := 0; query < params.NumQueries; query++ {
		for _, c := range []*p2p.Conn{c0, c1} {
			_, err := c.ReceiveInt64()
			require.NoError(t, err)
			sel, err := c.ReceiveVector()
			require.NoError(t, err)
			require.Len(t, sel, params.NumItems)
		}
		for f := 0; f < params.FeatureDim; f++ {
			readDot(c0, params.NumItems)
			readDot(c1, params.NumItems)
		}
		readDot(c0, params.FeatureDim)
		readDot(c1, params.FeatureDim)
		for i := 0; i < 2; i++ {
			readScalarVector(c0, params.FeatureDim)
			readScalarVector(c1, params.FeatureDim)
		}
	}

	require.NoError(t, <-done)
}

// TestBeaverReconstruction runs the full Beaver dot product algebra
// on a triple without networking.
func TestBeaverReconstruction(t *testing.T) {
	const length = 10

	for round := 0; round < 100; round++ {
		triple := NewDotTriple(length)

		x0 := randVector(length)
		x1 := randVector(length)
		y0 := randVector(length)
		y1 := randVector(length)

		masked0x := x0.Add(triple.X0)
		masked0y := y0.Add(triple.Y0)
		masked1x := x1.Add(triple.X1)
		masked1y := y1.Add(triple.Y1)

		result0 := x0.Dot(y0.Add(masked1y)) -
			triple.Y0.Dot(masked1x) + triple.C0
		result1 := x1.Dot(y1.Add(masked0y)) -
			triple.Y1.Dot(masked0x) + triple.C1

		expected := x0.Add(x1).Dot(y0.Add(y1))
		require.Equal(t, expected, result0+result1)
	}
}

func randVector(length int) share.Vector {
	v := make(share.Vector, length)
	for i := range v {
		v[i] = share.RandInt8()
	}
	return v
}
