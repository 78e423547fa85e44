// Command pinguardctl is the operator CLI: offline PIN classification and
// service token issuance for callers of the pinguard API.
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
