package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/taigrr/meshview/internal/logger"
	"github.com/taigrr/meshview/pkg/models"
)

func newInfoCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "info <mesh>",
		Short: "Print mesh statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.setup(cmd, cmd.ErrOrStderr()); err != nil {
				return err
			}
			defer logger.Close()

			mesh, err := models.ReadMesh(args[0])
			if err != nil {
				return err
			}
			st := mesh.Stats()
			b := st.Bounds

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:      %s\n", filepath.Base(args[0]))
			fmt.Fprintf(out, "vertices:  %d\n", st.Vertices)
			fmt.Fprintf(out, "edges:     %d\n", st.Edges)
			fmt.Fprintf(out, "faces:     %d\n", st.Faces)
			fmt.Fprintf(out, "boundary:  %d\n", st.Boundary)
			fmt.Fprintf(out, "bounds:    (%g, %g, %g) - (%g, %g, %g)\n",
				b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
			fmt.Fprintf(out, "diagonal:  %g\n", st.Diagonal)
			if st.Edges > 0 {
				fmt.Fprintf(out, "edge len:  min %g  max %g  avg %g\n", st.EdgeMin, st.EdgeMax, st.EdgeAvg)
			}
			return nil
		},
	}
}
