package main

import "geo-accessor/pkg/cli"

func main() {
	cli.Execute()
}
