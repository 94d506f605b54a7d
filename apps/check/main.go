//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"log"
	"os"

	"github.com/markkurossi/secrec"
	"github.com/markkurossi/secrec/engine"
)

func main() {
	params := secrec.NewParams()

	flag.IntVar(&params.NumUsers, "m", params.NumUsers,
		"number of users")
	flag.IntVar(&params.NumItems, "n", params.NumItems,
		"number of items")
	flag.IntVar(&params.FeatureDim, "k", params.FeatureDim,
		"feature dimension")
	flag.IntVar(&params.NumQueries, "q", params.NumQueries,
		"number of queries")
	dir := flag.String("data", "", "data directory")
	flag.Parse()

	dataDir := *dir
	if len(dataDir) == 0 {
		var err error
		dataDir, err = engine.FindDataDir()
		if err != nil {
			log.Fatalf("%s", err)
		}
	}

	ok, err := engine.Verify(dataDir, params)
	if err != nil {
		log.Fatalf("verify: %s", err)
	}
	if !ok {
		os.Exit(1)
	}
}
