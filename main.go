package main

import "github.com/lazharichir/holdem/cmd"

func main() {
	cmd.Execute()
}
