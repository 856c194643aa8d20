package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sector-audit",
		Short: "Audit and repair sector-tree mirror links",
	}
	cmd.AddCommand(newReconcileCmd())
	return cmd
}
