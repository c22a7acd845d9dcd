package main

import (
	"os"
	"strings"

	"postadmin/service"
)

const CliVersion = service.Version

// exit is swapped in tests.
var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args to the matching subcommand and exits with its code.
func RealMain() {
	service.SetOutput(os.Stdout)

	if len(os.Args) < 2 {
		service.HandleCommand(nil)
		exit(1)
		return
	}

	args := append([]string{strings.ToLower(os.Args[1])}, os.Args[2:]...)
	exit(service.HandleCommand(args))
}
