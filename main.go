package main

import "permit-sync/cmd"

func main() {
	cmd.Execute()
}
