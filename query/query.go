//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package query implements the update query files. Each compute
// party loads a binary query stream holding, per query, the public
// user index, the party's additive share of the item index, and the
// party's DPF key share encoding the item's one-hot selector.
package query

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/markkurossi/secrec/dpf"
)

// Query is one party's view of an update query.
type Query struct {
	UserIndex uint32
	ItemShare int64
	Key       *dpf.Key
}

// Write writes the query record to w: user index as 4-byte
// little-endian, item share as 8-byte little-endian, then the DPF
// key blob.
func Write(w io.Writer, q Query) error {
	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:], q.UserIndex)
	binary.LittleEndian.PutUint64(hdr[4:], uint64(q.ItemShare))
	_, err := w.Write(hdr[:])
	if err != nil {
		return err
	}
	return dpf.WriteKey(w, q.Key)
}

// Read reads one query record from r. It returns io.EOF when r is
// exhausted at a record boundary.
func Read(r io.Reader) (Query, error) {
	var hdr [12]byte
	_, err := io.ReadFull(r, hdr[:])
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			err = fmt.Errorf("query: truncated record header")
		}
		return Query{}, err
	}
	key, err := dpf.ReadKey(r)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = fmt.Errorf("query: truncated key blob")
		}
		return Query{}, err
	}
	return Query{
		UserIndex: binary.LittleEndian.Uint32(hdr[0:]),
		ItemShare: int64(binary.LittleEndian.Uint64(hdr[4:])),
		Key:       key,
	}, nil
}

// ReadQueries reads all query records from the argument file.
func ReadQueries(path string) ([]Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var queries []Query
	for {
		q, err := Read(r)
		if err == io.EOF {
			return queries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %s", path, err)
		}
		queries = append(queries, q)
	}
}

// Plain is a cleartext query.
type Plain struct {
	User uint32
	Item uint32
}

// ReadPlain reads count cleartext queries from the argument file:
// one query per line, zero-based user and item indices.
func ReadPlain(path string, count int) ([]Plain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	queries := make([]Plain, 0, count)
	for i := 0; i < count; i++ {
		var q Plain
		_, err := fmt.Fscan(f, &q.User, &q.Item)
		if err != nil {
			return nil, fmt.Errorf("%s: query %d: %s", path, i, err)
		}
		queries = append(queries, q)
	}
	return queries, nil
}
