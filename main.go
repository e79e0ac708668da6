package main

import "object-manager/cmd"

func main() {
	cmd.Execute()
}
