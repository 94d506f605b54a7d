//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package engine

import (
	"testing"

	"github.com/markkurossi/secrec/query"
	"github.com/markkurossi/secrec/share"
)

// TestSimulatePreStepReads pins the update semantics: the item
// update reads the user row as it was before the user update of the
// same query.
func TestSimulatePreStepReads(t *testing.T) {
	users := share.Matrix{{1}}
	items := share.Matrix{{2}}

	err := Simulate(users, items, []query.Plain{{User: 0, Item: 0}})
	if err != nil {
		t.Fatal(err)
	}

	// d = 2, 1-d = -1: u <- 1 + 2*(-1) = -1. The item update uses
	// the pre-step u = 1: v <- 2 + 1*(-1) = 1, not 2 + (-1)*(-1).
	if users[0][0] != -1 {
		t.Errorf("u: got %d, expected -1", users[0][0])
	}
	if items[0][0] != 1 {
		t.Errorf("v: got %d, expected 1", items[0][0])
	}
}

func TestSimulateRange(t *testing.T) {
	users := share.Matrix{{1}}
	items := share.Matrix{{2}}

	err := Simulate(users, items, []query.Plain{{User: 1, Item: 0}})
	if err == nil {
		t.Fatalf("out-of-range user index did not fail")
	}
	err = Simulate(users, items, []query.Plain{{User: 0, Item: 7}})
	if err == nil {
		t.Fatalf("out-of-range item index did not fail")
	}
}
