package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tripwell/tripkit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tripkit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tripkit version %s\n", strings.TrimSpace(tripkit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
