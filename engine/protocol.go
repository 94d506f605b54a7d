//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package engine

import (
	"fmt"
	"time"

	"github.com/markkurossi/secrec/dpf"
	"github.com/markkurossi/secrec/p2p"
	"github.com/markkurossi/secrec/query"
	"github.com/markkurossi/secrec/share"
)

// runQuery executes one update query. The steps run in a fixed
// sequence; the dealer emits the correlated material in the same
// order.
func (p *Party) runQuery(q query.Query) error {
	userIndex := int(q.UserIndex)
	if userIndex >= p.params.NumUsers {
		return fmt.Errorf("user index %d out of range [0,%d)",
			userIndex, p.params.NumUsers)
	}

	// Both the user and the item update read the pre-query profile
	// rows; the user row mutates below so capture it first.
	userProfile := p.users[userIndex].Clone()

	userStart := time.Now()

	itemProfile, err := p.retrieveItemProfile(q.ItemShare)
	if err != nil {
		return err
	}
	dot, err := p.innerProduct(userProfile, itemProfile)
	if err != nil {
		return err
	}
	scaled, err := p.scalarVectorProduct(dot, itemProfile)
	if err != nil {
		return err
	}
	p.users[userIndex] = p.users[userIndex].Add(itemProfile).Sub(scaled)

	userDuration := time.Since(userStart)
	itemStart := time.Now()

	// The parties hold shares of d; the public constant 1 of the
	// complement 1-d is reconstructed as role-d since exactly role 1
	// contributes the +1. This works for the two-party roles {0, 1}
	// only.
	complement := int64(p.role) - dot

	update, err := p.scalarVectorProduct(complement, userProfile)
	if err != nil {
		return err
	}
	err = p.updateItemRow(q.Key, update)
	if err != nil {
		return err
	}

	p.timing.Sample(userDuration, time.Since(itemStart))
	return nil
}

// retrieveItemProfile fetches the secret item's profile row from the
// item share matrix. The dealer's masked one-hot selector is rotated
// into place with the reconstructed public rotation amount; the row
// itself comes out of per-feature oblivious inner products between
// the matrix columns and the selector shares.
func (p *Party) retrieveItemProfile(itemShare int64) (share.Vector, error) {
	n := int64(p.params.NumItems)

	base, err := p.helper.ReceiveInt64()
	if err != nil {
		return nil, err
	}
	selector, err := p.helper.ReceiveVector()
	if err != nil {
		return nil, err
	}

	offset := itemShare - base
	peerOffset, err := p2p.ExchangeInt64(p.peer, p.role, offset)
	if err != nil {
		return nil, err
	}
	combined := offset + peerOffset
	rotation := int(((combined % n) + n) % n)

	rotated := share.Vector(selector).RotateLeft(
		(int(n) - rotation) % int(n))

	profile := make(share.Vector, p.params.FeatureDim)
	for f := range profile {
		profile[f], err = p.innerProduct(p.items.Column(f), rotated)
		if err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// innerProduct computes a share of <x, y> where both parties hold
// shares of the vectors, consuming one dealer dot triple.
func (p *Party) innerProduct(x, y share.Vector) (int64, error) {
	tripleX, err := p.helper.ReceiveVector()
	if err != nil {
		return 0, err
	}
	tripleY, err := p.helper.ReceiveVector()
	if err != nil {
		return 0, err
	}
	tripleC, err := p.helper.ReceiveInt64()
	if err != nil {
		return 0, err
	}

	maskedX := x.Add(tripleX)
	maskedY := y.Add(tripleY)

	peerX, err := p2p.ExchangeVector(p.peer, p.role, maskedX)
	if err != nil {
		return 0, err
	}
	peerY, err := p2p.ExchangeVector(p.peer, p.role, maskedY)
	if err != nil {
		return 0, err
	}

	result := x.Dot(y.Add(peerY)) -
		share.Vector(tripleY).Dot(peerX) + tripleC
	return result, nil
}

// scalarVectorProduct computes shares of s*v where both parties hold
// shares of the scalar and the vector, consuming one dealer
// scalar-vector triple.
func (p *Party) scalarVectorProduct(scalar int64, vec share.Vector) (
	share.Vector, error) {

	tripleX, err := p.helper.ReceiveInt64()
	if err != nil {
		return nil, err
	}
	tripleY, err := p.helper.ReceiveVector()
	if err != nil {
		return nil, err
	}
	tripleZ, err := p.helper.ReceiveVector()
	if err != nil {
		return nil, err
	}

	maskedScalar := scalar + tripleX
	maskedVec := vec.Add(tripleY)

	peerScalar, err := p2p.ExchangeInt64(p.peer, p.role, maskedScalar)
	if err != nil {
		return nil, err
	}
	peerVec, err := p2p.ExchangeVector(p.peer, p.role, maskedVec)
	if err != nil {
		return nil, err
	}

	result := vec.Add(peerVec).ScalarMul(scalar).
		Sub(share.Vector(tripleY).ScalarMul(peerScalar)).
		Add(tripleZ)
	return result, nil
}

// updateItemRow adds the update vector into the secret item's row of
// the item matrix. The query's DPF key encodes the item's one-hot
// selector with point value 0; per feature, the parties move their
// update share into the key by patching the final correction word,
// then expand the key over the item domain and add the expansion
// into the feature column. The expansions sum to the update at the
// secret row and to zero everywhere else.
func (p *Party) updateItemRow(key *dpf.Key, update share.Vector) error {
	n := p.params.NumItems

	for f, component := range update {
		masked := component - key.FinalCW
		peerMasked, err := p2p.ExchangeInt64(p.peer, p.role, masked)
		if err != nil {
			return err
		}

		patched := key.Patch(masked + peerMasked)

		column := patched.EvalFull(uint64(n))
		for item := 0; item < n; item++ {
			p.items[item][f] += column[item]
		}
	}
	return nil
}
