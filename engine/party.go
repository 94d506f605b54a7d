//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package engine implements the update engine run by the two compute
// parties. Per query the engine fetches the secret item's profile
// row obliviously, computes the Funk-SVD gradient step on shares
// with dealer-supplied Beaver triples, and scatters the item row
// update through a DPF so that neither party learns which row
// changed.
package engine

import (
	"fmt"
	"net"
	"path/filepath"
	"time"

	"github.com/markkurossi/text/superscript"

	"github.com/markkurossi/secrec"
	"github.com/markkurossi/secrec/p2p"
	"github.com/markkurossi/secrec/query"
	"github.com/markkurossi/secrec/share"
)

const connectRetryDelay = 5 * time.Second

// Party implements one compute party of the update protocol. The
// role, 0 or 1, decides the send-first side of every symmetric
// exchange and the party's file names.
type Party struct {
	Verbose bool

	role    int
	params  secrec.Params
	helper  *p2p.Conn
	peer    *p2p.Conn
	users   share.Matrix
	items   share.Matrix
	queries []query.Query
	timing  *Timing
}

// NewParty creates a new compute party with the argument role.
func NewParty(role int, params secrec.Params) (*Party, error) {
	if role != 0 && role != 1 {
		return nil, fmt.Errorf("engine: invalid role %d", role)
	}
	return &Party{
		Verbose: params.Verbose,
		role:    role,
		params:  params,
		timing:  NewTiming(),
	}, nil
}

// Role returns the party role.
func (p *Party) Role() int {
	return p.role
}

// IDString returns the party ID as string.
func (p *Party) IDString() string {
	return "P" + superscript.Itoa(p.role)
}

// Debugf prints a debugging message if verbose tracing is enabled
// for this party.
func (p *Party) Debugf(format string, a ...interface{}) {
	if !p.Verbose {
		return
	}
	fmt.Printf(format, a...)
}

// Connect establishes the helper and peer connections. The dials
// retry until the counterpart is accepting; once a connection is
// established there are no retries.
func (p *Party) Connect() error {
	helper, err := dialRetry(p.params.HelperAddr)
	if err != nil {
		return err
	}
	p.helper = p2p.NewConn(helper)
	fmt.Printf("%s: connected to helper at %s\n",
		p.IDString(), p.params.HelperAddr)

	var peer net.Conn
	if p.role == 0 {
		peer, err = dialRetry(p.params.PeerAddr)
	} else {
		peer, err = acceptOne(p.params.PeerAddr)
	}
	if err != nil {
		return err
	}
	p.peer = p2p.NewConn(peer)
	fmt.Printf("%s: peer connection established\n", p.IDString())

	return nil
}

func dialRetry(addr string) (net.Conn, error) {
	for {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			return conn, nil
		}
		fmt.Printf("connect to %s failed, retrying in %s\n",
			addr, connectRetryDelay)
		time.Sleep(connectRetryDelay)
	}
}

func acceptOne(addr string) (net.Conn, error) {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, err
	}
	defer listener.Close()

	return listener.Accept()
}

// SetConns sets the helper and peer connections. The protocol tests
// run the parties over in-process pipes instead of TCP.
func (p *Party) SetConns(helper, peer *p2p.Conn) {
	p.helper = helper
	p.peer = peer
}

// LoadData loads the party's share matrices and query list from the
// data directory.
func (p *Party) LoadData() error {
	dir := p.params.DataDir

	users, err := share.LoadMatrix(
		filepath.Join(dir, fmt.Sprintf("U%d.txt", p.role)),
		p.params.NumUsers, p.params.FeatureDim)
	if err != nil {
		return err
	}
	items, err := share.LoadMatrix(
		filepath.Join(dir, fmt.Sprintf("V%d.txt", p.role)),
		p.params.NumItems, p.params.FeatureDim)
	if err != nil {
		return err
	}
	queries, err := query.ReadQueries(
		filepath.Join(dir, fmt.Sprintf("queries_p%d.bin", p.role)))
	if err != nil {
		return err
	}
	p.SetData(users, items, queries)

	fmt.Printf("%s: loaded share matrices and %d queries\n",
		p.IDString(), len(queries))
	return nil
}

// SetData sets the party's share matrices and query list.
func (p *Party) SetData(users, items share.Matrix, queries []query.Query) {
	p.users = users
	p.items = items
	p.queries = queries
}

// Users returns the party's user profile share matrix.
func (p *Party) Users() share.Matrix {
	return p.users
}

// Items returns the party's item profile share matrix.
func (p *Party) Items() share.Matrix {
	return p.items
}

// Run executes all loaded queries in order.
func (p *Party) Run() error {
	for i, q := range p.queries {
		p.Debugf("%s: query %d: user=%d\n", p.IDString(), i, q.UserIndex)
		err := p.runQuery(q)
		if err != nil {
			return fmt.Errorf("query %d: %s", i, err)
		}
	}
	return nil
}

// SaveResults writes the updated share matrices into the data
// directory.
func (p *Party) SaveResults() error {
	dir := p.params.DataDir

	err := p.users.Store(filepath.Join(dir,
		fmt.Sprintf("U%d_updated.txt", p.role)))
	if err != nil {
		return err
	}
	err = p.items.Store(filepath.Join(dir,
		fmt.Sprintf("V%d_updated.txt", p.role)))
	if err != nil {
		return err
	}
	fmt.Printf("%s: saved updated share matrices\n", p.IDString())
	return nil
}

// Report prints the timing report. The protocol is symmetric so only
// party 0 reports.
func (p *Party) Report() {
	if p.role != 0 {
		return
	}
	stats := p.peer.Stats.Add(p.helper.Stats)
	p.timing.Print(p.params, stats)
}

// Close closes the party's connections.
func (p *Party) Close() error {
	if p.helper != nil {
		if err := p.helper.Close(); err != nil {
			return err
		}
	}
	if p.peer != nil {
		return p.peer.Close()
	}
	return nil
}
