// Command gabac is a CLI front end for the gabac entropy engine: it can
// encode, decode, and analyze integer symbol streams.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
