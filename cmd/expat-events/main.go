package main

import "github.com/pfrederiksen/expat-events/internal/cli"

func main() {
	cli.Execute()
}
