package main

import (
	"log"

	"github.com/re-centris/method-extractor/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
