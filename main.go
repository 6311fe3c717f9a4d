package main

import "github.com/notargets/torsionfit/cmd"

func main() {
	cmd.Execute()
}
