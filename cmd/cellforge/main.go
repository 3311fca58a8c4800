package main

import "cellforge/cmd/cellforge/cmd"

func main() {
	cmd.Execute()
}
