//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"net"

	"github.com/markkurossi/secrec"
	"github.com/markkurossi/secrec/dealer"
	"github.com/markkurossi/secrec/p2p"
)

func main() {
	params := secrec.NewParams()

	addr := flag.String("addr", ":9002", "listen address")
	flag.IntVar(&params.NumItems, "n", params.NumItems,
		"number of items")
	flag.IntVar(&params.FeatureDim, "k", params.FeatureDim,
		"feature dimension")
	flag.IntVar(&params.NumQueries, "q", params.NumQueries,
		"number of queries")
	flag.BoolVar(&params.Verbose, "v", false, "verbose output")
	flag.Parse()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("listen: %s", err)
	}

	// The first inbound connection is party 0, the second party 1.
	fmt.Printf("P2: waiting for parties on %s\n", *addr)
	nc0, err := listener.Accept()
	if err != nil {
		log.Fatalf("accept: %s", err)
	}
	fmt.Printf("P2: party 0 connected\n")
	nc1, err := listener.Accept()
	if err != nil {
		log.Fatalf("accept: %s", err)
	}
	fmt.Printf("P2: party 1 connected\n")

	p0 := p2p.NewConn(nc0)
	p1 := p2p.NewConn(nc1)

	if err := dealer.Serve(params, p0, p1); err != nil {
		log.Fatalf("serve: %s", err)
	}
	fmt.Printf("P2: session finished\n")

	p0.Close()
	p1.Close()
}
