// gowscctl -- CLI client for the gowscd daemon.
package main

import "github.com/dantte-lp/gowsc/cmd/gowscctl/commands"

func main() {
	commands.Execute()
}
