package main

import "github.com/pdrpinto/hpastar/cmd/navroute/commands"

func main() {
	commands.Execute()
}
