package main

import "github.com/einadid/microtask-server/cmd"

var version = "dev"

func main() {
	cmd.Execute(version)
}
