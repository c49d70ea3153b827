package main

import "github.com/LavaJover/little-brother/cmd/lbctl/arg"

func main() {
	arg.Execute()
}
