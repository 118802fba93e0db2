package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Execute runs the segvolrender CLI and returns an error if any command fails
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "segvolrender",
		Short:        "Inspect labelmap volume rendering state",
		Long:         `segvolrender binds segmentation layers to a volume rendering view and reports the transfer functions, cinematic state and streaming updates they produce.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newTransferCmd())
	root.AddCommand(newSimulateCmd())
	root.AddCommand(newPreviewCmd())
	return root
}
