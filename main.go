package main

import "github.com/dasolve/dmddl/cmd"

func main() {
	cmd.Execute()
}
