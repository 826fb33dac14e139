package main

import "github.com/Bitlatte/docindex/cmd"

func main() {
	cmd.Execute()
}
