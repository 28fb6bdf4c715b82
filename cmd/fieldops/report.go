package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the convoy route planning report as a .docx document",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := toolkit().ConvoyReport(reportOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output path (default the report's stock filename)")
	rootCmd.AddCommand(reportCmd)
}
