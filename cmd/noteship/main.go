package main

import "github.com/noteship/noteship/internal/commands"

func main() {
	commands.Execute()
}
