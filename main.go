package main

import "alujo/cmd"

func main() {
	cmd.Execute()
}
