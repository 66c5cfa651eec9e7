package main

import "github.com/ryan-gang/mail-sender/cmd"

func main() {
	cmd.Execute()
}
