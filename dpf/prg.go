//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package dpf

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
)

// PRG expands the argument seed into two child seeds and two control
// flags. The expansion is a chacha20 keystream keyed by the seed;
// both evaluating parties must compute identical expansions from
// identical seeds, which the key tree construction relies on.
//
// Child seeds carry eight bits of entropy. The seed space is
// intentionally small: the construction trades cryptographic strength
// for tree sizes that stay readable in protocol traces. A
// hardened deployment would widen the seeds and the key layout with
// them.
func PRG(seed uint64) (sLeft, sRight uint64, fLeft, fRight bool) {
	var key [chacha20.KeySize]byte
	binary.LittleEndian.PutUint64(key[:8], seed)

	var nonce [chacha20.NonceSize]byte
	stream, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		panic(err)
	}

	var out [4]byte
	stream.XORKeyStream(out[:], out[:])

	sLeft = uint64(out[0])
	sRight = uint64(out[1])
	fLeft = out[2]&1 == 1
	fRight = out[3]&1 == 1
	return
}
