// Command vibeconnect is the operator CLI and terminal inbox.
package main

import (
	"fmt"
	"os"

	"vibeconnect/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
