// Command jsondbctl is the entry point for the jsondbctl CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/jsondb-go/jsondb/cmd"
)

func main() {
	root := cmd.NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
