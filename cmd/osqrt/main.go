// Command osqrt computes oblivious integer and single precision square roots.
package main

import (
	"os"

	"github.com/shogo82148/osqrt/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
