package main

import "winamp7/cmd"

func main() {
	cmd.Execute()
}
