package main

import "github.com/ridoystarlord/knexgen/cmd"

func main() {
	cmd.Execute()
}
