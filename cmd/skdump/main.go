// Command skdump inspects and exports Sk dictionary tables.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
