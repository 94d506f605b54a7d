//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package query

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/markkurossi/secrec"
	"github.com/markkurossi/secrec/dpf"
	"github.com/markkurossi/secrec/share"
)

// Generate creates a full session bootstrap in the argument
// directory: the four initial share matrix files, the two binary
// per-party query files, and the cleartext query file for the
// correctness checker. Profile values are drawn from the signed
// 8-bit range and split into additive shares.
func Generate(dir string, params secrec.Params) error {
	m := params.NumUsers
	n := params.NumItems
	k := params.FeatureDim

	u0, u1 := randomShareMatrices(m, k)
	v0, v1 := randomShareMatrices(n, k)

	matrices := []struct {
		name string
		m    share.Matrix
	}{
		{"U0.txt", u0},
		{"U1.txt", u1},
		{"V0.txt", v0},
		{"V1.txt", v1},
	}
	for _, mat := range matrices {
		err := mat.m.Store(filepath.Join(dir, mat.name))
		if err != nil {
			return err
		}
	}

	q0, err := os.Create(filepath.Join(dir, "queries_p0.bin"))
	if err != nil {
		return err
	}
	defer q0.Close()
	q1, err := os.Create(filepath.Join(dir, "queries_p1.bin"))
	if err != nil {
		return err
	}
	defer q1.Close()
	plain, err := os.Create(filepath.Join(dir, "queries_cleartext.txt"))
	if err != nil {
		return err
	}
	defer plain.Close()

	w0 := bufio.NewWriter(q0)
	w1 := bufio.NewWriter(q1)
	wp := bufio.NewWriter(plain)

	for i := 0; i < params.NumQueries; i++ {
		user := share.RandUint32() % uint32(m)
		item := share.RandUint32() % uint32(n)

		itemShare0 := share.RandInt32()
		itemShare1 := int64(item) - itemShare0

		// The key pair encodes the item's one-hot selector with
		// point value 0; the engine patches the final correction
		// word with the real update value per feature.
		k0, k1 := dpf.GenerateKeys(uint64(item), 0, uint64(n))

		err = Write(w0, Query{
			UserIndex: user,
			ItemShare: itemShare0,
			Key:       k0,
		})
		if err != nil {
			return err
		}
		err = Write(w1, Query{
			UserIndex: user,
			ItemShare: itemShare1,
			Key:       k1,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(wp, "%d %d\n", user, item)
	}

	if err := w0.Flush(); err != nil {
		return err
	}
	if err := w1.Flush(); err != nil {
		return err
	}
	return wp.Flush()
}

func randomShareMatrices(rows, cols int) (share.Matrix, share.Matrix) {
	m0 := share.NewMatrix(rows, cols)
	m1 := share.NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			value := share.RandInt8()
			m0[i][j] = share.RandInt8()
			m1[i][j] = value - m0[i][j]
		}
	}
	return m0, m1
}
