package main

import "location-manager/cmd"

func main() {
	cmd.Execute()
}
