package main

import "favicongen/src/cli"

func main() {
	cli.Main()
}
