package main

import "github.com/talos-systems/sidero-docs/cmd"

func main() {
	cmd.Execute()
}
