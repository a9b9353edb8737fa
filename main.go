package main

import "github.com/tiMaxal/pairs3d/cmd"

func main() {
	cmd.Execute()
}
