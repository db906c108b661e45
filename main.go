package main

import "github.com/mpapenbr/openf1-analysis/cmd"

func main() {
	cmd.Execute()
}
