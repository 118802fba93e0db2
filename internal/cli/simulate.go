package cli

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"segvolrender/internal/models"
	"segvolrender/pkg/representation"
)

func newSimulateCmd() *cobra.Command {
	var (
		segmentation string
		chunks       int
	)

	cmd := &cobra.Command{
		Use:   "simulate <scene>",
		Short: "Replay camera animation and image streaming against a scene",
		Long:  `Bind a segmentation's representation and replay a camera animation followed by a streamed load of the parent image, logging the cinematic state, sample distance, delivered extents and render requests after each step.`,
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

			c := s.bind(sc.ID, 0, logger)
			defer c.Close()

			report := func(step string) { logStep(logger, s, c, step) }
			report("settled")

			s.view.Animating.Set(true)
			report("animating")
			s.view.Animating.Set(false)
			report("animation stopped")

			imageID := s.cfg.Image.ID
			s.stores.Images.SetStreaming(imageID, true)
			report("streaming started")
			var loader sync.WaitGroup
			loader.Add(1)
			go func() {
				defer loader.Done()
				for _, ext := range chunkExtents(s.image.Dims, chunks) {
					s.image.LoadChunk(ext)
				}
			}()
			loader.Wait()
			logger.Debug("chunks queued", "pending", c.PendingExtents())
			c.Tick()
			report("chunks loaded")
			s.stores.Images.SetStreaming(imageID, false)
			report("streaming finished")

			prog.done("Simulation completed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&segmentation, "segmentation", "s", "", "segmentation id (default: first in scene)")
	cmd.Flags().IntVarP(&chunks, "chunks", "n", 8, "number of streamed chunks")
	return cmd
}

// chunkExtents splits a volume into n slabs along z
func chunkExtents(dims [3]int, n int) []models.Extent {
	depth := dims[2]
	if n <= 0 || depth <= 0 {
		return nil
	}
	if n > depth {
		n = depth
	}
	out := make([]models.Extent, 0, n)
	for i := 0; i < n; i++ {
		zmin := i * depth / n
		zmax := (i+1)*depth/n - 1
		out = append(out, models.Extent{0, dims[0] - 1, 0, dims[1] - 1, zmin, zmax})
	}
	return out
}

func logStep(logger *log.Logger, s *scene, c *representation.Coordinator, step string) {
	rep := c.Representation()
	received, delivered := c.ExtentCursor()
	logger.Info(step,
		"visible", rep.Actor.Visible(),
		"effects", describeEffects(s.view, rep),
		"sampleDistance", rep.Mapper.SampleDistance(),
		"extents", len(rep.Mapper.UpdatedExtents()),
		"received", received,
		"delivered", delivered,
		"renders", s.view.RenderRequests(),
	)
}
