package main

import (
	"os"

	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line flag parsing.

	"github.com/sjolander/cloudwatch-search/internal/app/search" // App implementation.
)

func main() {
	app := search.NewApp()
	kingpin.MustParse(app.Parse(os.Args[1:]))
	app.Main()
}
