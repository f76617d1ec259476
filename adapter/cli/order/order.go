// Package order implements the order command group.
package order

import (
	"github.com/spf13/cobra"
)

// Cmd is the order command group
var Cmd = &cobra.Command{
	Use:   "order",
	Short: "Manage production orders",
	Long:  `Create orders, move them through the pipeline, and archive them.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(boardCmd)
	Cmd.AddCommand(startCmd)
	Cmd.AddCommand(completeCmd)
	Cmd.AddCommand(archiveCmd)
}
