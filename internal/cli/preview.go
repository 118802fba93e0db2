package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"segvolrender/pkg/visualization"
)

func newPreviewCmd() *cobra.Command {
	var (
		segmentation string
		label        int
		axis         string
		slice        int
		out          string
		all          bool
	)

	cmd := &cobra.Command{
		Use:   "preview <scene>",
		Short: "Write labelmap slices colored by the transfer function",
		Long:  `Bind a segmentation's representation and render slices of its labelmap through the resulting transfer function. Output is PNG, or JPEG for .jpg/.jpeg paths; with --all every slice along the axis is written into the --out directory.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			s, err := loadScene(args[0])
			if err != nil {
				return err
			}
			sc, err := s.segmentation(segmentation)
			if err != nil {
				return err
			}
			labelmap, ok := s.stores.Segmentations.Data(sc.ID)
			if !ok {
				return fmt.Errorf("segmentation %q has no labelmap", sc.ID)
			}

			c := s.bind(sc.ID, label, logger)
			defer c.Close()

			d := labelmap.Dims
			viewer := visualization.NewViewer(labelmap.Scalars, d[0], d[1], d[2], c.Representation().Property)

			if all {
				if err := viewer.SaveSliceSequence(axis, out); err != nil {
					return fmt.Errorf("failed to save %s-axis slices: %w", axis, err)
				}
				prog.done(fmt.Sprintf("Saved %s-axis slices to %s", axis, out))
				return nil
			}

			img, err := viewer.ExtractSlice(axis, slice)
			if err != nil {
				return err
			}
			if err := viewer.SaveSlice(img, out); err != nil {
				return fmt.Errorf("failed to save slice: %w", err)
			}
			prog.done(fmt.Sprintf("Saved %s-axis slice %d to %s", axis, slice, out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&segmentation, "segmentation", "s", "", "segmentation id (default: first in scene)")
	cmd.Flags().IntVarP(&label, "label", "l", 0, "render only this segment value")
	cmd.Flags().StringVar(&axis, "axis", "z", "slice axis (x, y or z)")
	cmd.Flags().IntVar(&slice, "slice", 0, "slice position along the axis")
	cmd.Flags().StringVarP(&out, "out", "o", "preview.png", "output file, or directory with --all")
	cmd.Flags().BoolVar(&all, "all", false, "write every slice along the axis")
	return cmd
}
