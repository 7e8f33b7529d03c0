package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.2.1"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	RunE:  runVersion,
}

func runVersion(_ *cobra.Command, _ []string) error {
	fmt.Println("page4u-mcp", version)
	return nil
}
