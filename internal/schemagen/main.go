// Package main generates JSON schemas for lintcfg document kinds.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/macropower/lintcfg/pkg/schema"
)

func main() {
	kind := flag.String("kind", "", "document kind to generate a schema for")
	outFile := flag.String("o", "", "output file")
	flag.Parse()

	if *kind == "" || *outFile == "" {
		log.Fatal("both -kind and -o are required")
	}

	data, err := schema.NewGenerator().Generate(*kind)
	if err != nil {
		log.Fatalf("generate schema: %v", err)
	}

	err = os.WriteFile(*outFile, data, 0o600)
	if err != nil {
		log.Fatalf("write schema: %v", err)
	}
}
