// Package cli implements the opr command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "opr",
		Short:         "Proxy ruleset toolkit: validate, parse and serve markdown rule documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newReloadCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func stdoutFd() uintptr {
	return os.Stdout.Fd()
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		_, _ = os.Stderr.WriteString("opr: " + err.Error() + "\n")
		return 1
	}
	return 0
}
