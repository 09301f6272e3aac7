// Command oil is the toolchain's CLI: a Cobra command tree dispatching
// to the checker, the VM, and the interactive REPL. It is a thin shell;
// it exists so the core packages are reachable end-to-end.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info, set by ldflags during release builds.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	root := &cobra.Command{
		Use:   "oil",
		Short: "oil is the toolchain for the oil language core",
		Long: "oil drives the module checker, the bytecode VM, and an\n" +
			"interactive REPL for the oil language.",
	}

	root.AddCommand(newCheckCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
