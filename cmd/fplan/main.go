package main

import "github.com/goblinsan/fplan/cmd/fplan/commands"

func main() {
	commands.Execute()
}
