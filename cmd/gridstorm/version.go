package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

func init() {
	rootCommand.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version of gridstorm",
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	})
}

func printVersion(out io.Writer) {
	fmt.Fprintln(out, "Version: "+version)
	fmt.Fprintln(out, "Build Commit: "+commit)
	fmt.Fprintln(out, "Build Timestamp: "+date)
	fmt.Fprintln(out, "Go Version: "+runtime.Version())
}
