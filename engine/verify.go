//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/markkurossi/secrec"
	"github.com/markkurossi/secrec/query"
	"github.com/markkurossi/secrec/share"
)

const mismatchPrintLimit = 10

// FindDataDir locates the session data directory: the first of
// data/, ./, /app/data/ holding the initial share files.
func FindDataDir() (string, error) {
	for _, dir := range []string{"data", ".", "/app/data"} {
		_, err := os.Stat(filepath.Join(dir, "U0.txt"))
		if err == nil {
			return dir, nil
		}
	}
	return "", fmt.Errorf("no data directory with share files found")
}

// Verify checks the protocol output against the cleartext
// simulation: it recombines the initial shares, replays the queries
// with Simulate, recombines the updated shares, and compares modulo
// 2^32. It returns false if any cell differs.
func Verify(dir string, params secrec.Params) (bool, error) {
	m := params.NumUsers
	n := params.NumItems
	k := params.FeatureDim

	users, err := loadRecombined(dir, "U0.txt", "U1.txt", m, k)
	if err != nil {
		return false, err
	}
	items, err := loadRecombined(dir, "V0.txt", "V1.txt", n, k)
	if err != nil {
		return false, err
	}

	queries, err := loadQueries(dir, params)
	if err != nil {
		return false, err
	}

	err = Simulate(users, items, queries)
	if err != nil {
		return false, err
	}

	usersMPC, err := loadRecombined(dir,
		"U0_updated.txt", "U1_updated.txt", m, k)
	if err != nil {
		return false, err
	}
	itemsMPC, err := loadRecombined(dir,
		"V0_updated.txt", "V1_updated.txt", n, k)
	if err != nil {
		return false, err
	}

	mismatches := compare("U", users, usersMPC)
	mismatches += compare("V", items, itemsMPC)

	if mismatches > 0 {
		fmt.Printf("FAILURE: %d mismatches\n", mismatches)
		return false, nil
	}
	fmt.Printf("SUCCESS: protocol output matches cleartext\n")
	return true, nil
}

func loadRecombined(dir, file0, file1 string, rows, cols int) (
	share.Matrix, error) {

	m0, err := share.LoadMatrix(filepath.Join(dir, file0), rows, cols)
	if err != nil {
		return nil, err
	}
	m1, err := share.LoadMatrix(filepath.Join(dir, file1), rows, cols)
	if err != nil {
		return nil, err
	}
	result := share.NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			result[i][j] = m0[i][j] + m1[i][j]
		}
	}
	return result, nil
}

// loadQueries loads the cleartext queries, falling back to
// reconstructing them from the two binary query files.
func loadQueries(dir string, params secrec.Params) ([]query.Plain, error) {
	queries, err := query.ReadPlain(
		filepath.Join(dir, "queries_cleartext.txt"), params.NumQueries)
	if err == nil {
		return queries, nil
	}

	q0, err := query.ReadQueries(filepath.Join(dir, "queries_p0.bin"))
	if err != nil {
		return nil, err
	}
	q1, err := query.ReadQueries(filepath.Join(dir, "queries_p1.bin"))
	if err != nil {
		return nil, err
	}
	if len(q0) != len(q1) {
		return nil, fmt.Errorf("query count mismatch: %d vs %d",
			len(q0), len(q1))
	}

	queries = make([]query.Plain, len(q0))
	for i := range q0 {
		item := q0[i].ItemShare + q1[i].ItemShare
		if item < 0 || item >= int64(params.NumItems) {
			return nil, fmt.Errorf(
				"query %d: reconstructed item index %d out of range",
				i, item)
		}
		queries[i] = query.Plain{
			User: q0[i].UserIndex,
			Item: uint32(item),
		}
	}
	return queries, nil
}

func compare(name string, expected, computed share.Matrix) int {
	var mismatches int
	for i := range expected {
		for j := range expected[i] {
			want := share.Reduce(expected[i][j])
			got := share.Reduce(computed[i][j])
			if want != got {
				if mismatches < mismatchPrintLimit {
					fmt.Printf("mismatch at %s[%d][%d]: MPC %d, cleartext %d\n",
						name, i, j, got, want)
				}
				mismatches++
			}
		}
	}
	return mismatches
}
