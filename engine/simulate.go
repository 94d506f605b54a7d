//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package engine

import (
	"fmt"

	"github.com/markkurossi/secrec/query"
	"github.com/markkurossi/secrec/share"
)

// Simulate applies the update queries to the cleartext profile
// matrices in place. Per query (i, j) it computes d = <u_i, v_j> and
// then
//
//	u_i += v_j * (1 - d)
//	v_j += u_i * (1 - d)
//
// where both updates read the pre-query rows: the item update uses
// u_i as it was before the user update of the same query.
func Simulate(users, items share.Matrix, queries []query.Plain) error {
	for idx, q := range queries {
		i := int(q.User)
		j := int(q.Item)
		if i >= len(users) || j >= len(items) {
			return fmt.Errorf("query %d: index (%d, %d) out of range",
				idx, i, j)
		}

		ui := users[i].Clone()
		vj := items[j].Clone()

		delta := 1 - ui.Dot(vj)

		users[i] = users[i].Add(vj.ScalarMul(delta))
		items[j] = items[j].Add(ui.ScalarMul(delta))
	}
	return nil
}
