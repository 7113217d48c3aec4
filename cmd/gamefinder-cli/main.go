package main

import "gamefinder-backend/cmd/gamefinder-cli/commands"

func main() {
	commands.Execute()
}
