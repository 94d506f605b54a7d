//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package p2p

// Every symmetric exchange between the compute parties needs a
// deterministic send-first side or both would block in send. The
// convention is fixed for all exchange sites: role 0 sends first,
// role 1 receives first.

// ExchangeInt64 swaps an int64 value with the peer and returns the
// peer's value.
func ExchangeInt64(conn *Conn, role int, val int64) (int64, error) {
	if role == 0 {
		if err := conn.SendInt64(val); err != nil {
			return 0, err
		}
		if err := conn.Flush(); err != nil {
			return 0, err
		}
		return conn.ReceiveInt64()
	}
	peer, err := conn.ReceiveInt64()
	if err != nil {
		return 0, err
	}
	if err := conn.SendInt64(val); err != nil {
		return 0, err
	}
	if err := conn.Flush(); err != nil {
		return 0, err
	}
	return peer, nil
}

// ExchangeVector swaps a share vector with the peer and returns the
// peer's vector.
func ExchangeVector(conn *Conn, role int, val []int64) ([]int64, error) {
	if role == 0 {
		if err := conn.SendVector(val); err != nil {
			return nil, err
		}
		if err := conn.Flush(); err != nil {
			return nil, err
		}
		return conn.ReceiveVector()
	}
	peer, err := conn.ReceiveVector()
	if err != nil {
		return nil, err
	}
	if err := conn.SendVector(val); err != nil {
		return nil, err
	}
	if err := conn.Flush(); err != nil {
		return nil, err
	}
	return peer, nil
}
