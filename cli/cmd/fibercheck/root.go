package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(u *ui) *cobra.Command {
	root := &cobra.Command{
		Use:   "fibercheck",
		Short: "Educational daily fiber intake check",
		Long: `fibercheck compares your current fiber intake with a suggested daily
target derived from age, sex and (optionally) calories, and prints a few
habit ideas. It uses simple public guidelines and is not medical advice.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&u.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newAssessCmd(u), newZonesCmd(u))
	return root
}
