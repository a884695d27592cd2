package main

import "github.com/spf13/cobra"

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Coordinate transformation management",
	Long:  "Fit, apply, validate, and export 3rd-order polynomial transformations from local grid coordinates to WGS84.",
}

func init() { rootCmd.AddCommand(transformCmd) }
