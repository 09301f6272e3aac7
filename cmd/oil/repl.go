package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oil-lang/oil/internal/repl"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive checking session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl.New(os.Stdout).Run()
		},
	}
}
