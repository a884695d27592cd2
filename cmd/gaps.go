package main

import "github.com/spf13/cobra"

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Acquisition coverage gap analysis",
	Long:  "Detects runs of source points without recorded deployments, per line, per swath, or survey-wide.",
}

func init() { rootCmd.AddCommand(gapsCmd) }
