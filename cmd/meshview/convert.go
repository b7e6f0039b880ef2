package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taigrr/meshview/internal/logger"
	"github.com/taigrr/meshview/pkg/models"
)

func newConvertCmd(c *cli) *cobra.Command {
	var precision int
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a mesh between formats",
		Long: "Read a mesh and write it out in the format named by the output extension (" +
			strings.Join(models.WritableFormats(), ", ") + ").",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.setup(cmd, cmd.ErrOrStderr()); err != nil {
				return err
			}
			defer logger.Close()

			mesh, err := models.ReadMesh(args[0])
			if err != nil {
				return err
			}
			if err := models.WriteMesh(mesh, args[1], precision); err != nil {
				return err
			}
			logger.Info("converted", "in", args[0], "out", args[1],
				"vertices", mesh.VertexCount(), "faces", mesh.FaceCount())
			fmt.Fprintln(cmd.OutOrStdout(), args[1])
			return nil
		},
	}
	cmd.Flags().IntVar(&precision, "precision", models.DefaultPrecision, "Significant digits for coordinates")
	return cmd
}
