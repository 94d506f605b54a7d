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
	"os"

	"github.com/markkurossi/secrec"
	"github.com/markkurossi/secrec/query"
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
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] output-dir\n",
			os.Args[0])
		os.Exit(1)
	}
	dir := flag.Arg(0)

	if err := query.Generate(dir, params); err != nil {
		log.Fatalf("generate: %s", err)
	}
	fmt.Printf("generated share and query files in %s\n", dir)
}
