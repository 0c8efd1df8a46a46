package main

import "github.com/Ololoshechkin/plugin-verifier/cmd"

func main() {
	cmd.Execute()
}
