//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"log"

	"github.com/markkurossi/secrec"
	"github.com/markkurossi/secrec/engine"
)

func main() {
	params := secrec.NewParams()

	role := flag.Int("role", 0, "party role (0 or 1)")
	flag.IntVar(&params.NumUsers, "m", params.NumUsers,
		"number of users")
	flag.IntVar(&params.NumItems, "n", params.NumItems,
		"number of items")
	flag.IntVar(&params.FeatureDim, "k", params.FeatureDim,
		"feature dimension")
	flag.IntVar(&params.NumQueries, "q", params.NumQueries,
		"number of queries")
	flag.StringVar(&params.HelperAddr, "helper", params.HelperAddr,
		"helper endpoint")
	flag.StringVar(&params.PeerAddr, "peer", params.PeerAddr,
		"party 1 peer endpoint")
	flag.StringVar(&params.DataDir, "data", params.DataDir,
		"data directory")
	flag.BoolVar(&params.Verbose, "v", false, "verbose output")
	flag.Parse()

	party, err := engine.NewParty(*role, params)
	if err != nil {
		log.Fatalf("%s", err)
	}

	if err := party.Connect(); err != nil {
		log.Fatalf("%s: connect: %s", party.IDString(), err)
	}
	if err := party.LoadData(); err != nil {
		log.Fatalf("%s: load: %s", party.IDString(), err)
	}
	if err := party.Run(); err != nil {
		log.Fatalf("%s: protocol: %s", party.IDString(), err)
	}
	if err := party.SaveResults(); err != nil {
		log.Fatalf("%s: save: %s", party.IDString(), err)
	}
	party.Report()
	party.Close()
}
