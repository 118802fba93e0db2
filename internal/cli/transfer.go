package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTransferCmd() *cobra.Command {
	var (
		segmentation string
		label        int
	)

	cmd := &cobra.Command{
		Use:   "transfer <scene>",
		Short: "Print the transfer function of a segmentation",
		Long:  `Load a scene file, bind the segmentation's volume representation and print the resulting color and opacity control points.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			s, err := loadScene(args[0])
			if err != nil {
				return err
			}
			sc, err := s.segmentation(segmentation)
			if err != nil {
				return err
			}

			c := s.bind(sc.ID, label, logger)
			defer c.Close()

			rep := c.Representation()
			if !rep.Actor.Visible() {
				logger.Warn("representation is hidden", "segmentation", sc.ID, "label", c.LabelFilter())
			}
			title := fmt.Sprintf("%s (label filter %d)", sc.ID, c.LabelFilter())
			printTransferFunction(cmd.OutOrStdout(), title, rep.Property)
			return nil
		},
	}

	cmd.Flags().StringVarP(&segmentation, "segmentation", "s", "", "segmentation id (default: first in scene)")
	cmd.Flags().IntVarP(&label, "label", "l", 0, "render only this segment value")
	return cmd
}
