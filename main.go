package main

import "snapshot-sync/cmd"

func main() {
	cmd.Execute()
}
