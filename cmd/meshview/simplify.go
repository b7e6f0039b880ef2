package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/meshview/internal/logger"
	"github.com/taigrr/meshview/pkg/models"
)

func newSimplifyCmd(c *cli) *cobra.Command {
	var (
		factor    float64
		precision int
	)
	cmd := &cobra.Command{
		Use:   "simplify <in> <out>",
		Short: "Reduce the face count of a mesh",
		Long:  "Decimate a mesh with quadric error metrics, keeping about factor of its faces.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.setup(cmd, cmd.ErrOrStderr()); err != nil {
				return err
			}
			defer logger.Close()

			mesh, err := models.ReadMesh(args[0])
			if err != nil {
				return err
			}
			out, err := models.Simplify(mesh, factor)
			if err != nil {
				return err
			}
			if err := models.WriteMesh(out, args[1], precision); err != nil {
				return err
			}
			logger.Info("simplified", "faces", mesh.FaceCount(), "kept", out.FaceCount())
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d -> %d faces\n", args[1], mesh.FaceCount(), out.FaceCount())
			return nil
		},
	}
	cmd.Flags().Float64Var(&factor, "factor", 0.5, "Fraction of faces to keep, in (0, 1]")
	cmd.Flags().IntVar(&precision, "precision", models.DefaultPrecision, "Significant digits for coordinates")
	return cmd
}
