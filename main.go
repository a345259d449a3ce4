package main

import "os"

var (
	Version        = "develop"
	CommitHash     = "n/a"
	BuildTimestamp = "n/a"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
