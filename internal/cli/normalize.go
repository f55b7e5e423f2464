package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/ingest"
	"github.com/matzehuels/truchet/pkg/placement"
	"github.com/matzehuels/truchet/pkg/tile"
)

// normalizeCommand creates the normalize command, which prints the
// canonical form of a single tile.
func (c *CLI) normalizeCommand() *cobra.Command {
	var tileSize int

	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Print the canonical form of one SVG tile",
		Long: `Print the canonical form of one SVG tile: scaled and centered in a square
viewport of --tile-size units, with every fill removed. This is exactly what
generate embeds in each cell.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("tile-size") {
				tileSize = c.Config.Generate.TileSize
			}
			if tileSize <= 0 {
				return errors.New(errors.ErrCodeInvalidTileSize, "tile size must be positive, got %d", tileSize)
			}

			raw, err := ingest.ReadFile(args[0])
			if err != nil {
				return err
			}
			n := tile.Normalize(raw, tileSize)
			if !n.Eligible() {
				return errors.New(errors.ErrCodeInvalidInput, "%s could not be normalized", raw.FileName)
			}
			c.Logger.Debug("normalized tile", "file", raw.FileName, "size", tileSize)

			_, err = fmt.Fprintln(cmd.OutOrStdout(), n.Standalone())
			return err
		},
	}

	cmd.Flags().IntVar(&tileSize, "tile-size", placement.DefaultTileSize, "side length of the canonical viewport")
	return cmd
}
