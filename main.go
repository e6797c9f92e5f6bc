package main

import (
	"log"
)

var (
	GitCommit string
	GitTag    string
	BuildTime string
)

//	@title			Bookshelf API
//	@version		1.0
//	@description	Personal library manager: books catalog, reading progress, ratings and statistics.
//	@BasePath		/
func main() {
	if err := NewRootCommand(serve).Execute(); err != nil {
		log.Fatal(err)
	}
}
