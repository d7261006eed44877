package main

import "github.com/diogo/omnichat/internal/commands"

func main() {
	commands.Execute()
}
